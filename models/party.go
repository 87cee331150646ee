package models

import "time"

// Party represents one organized event in DynamoDB
type Party struct {
	PartyID     string    `json:"partyId" dynamodbav:"partyId"`         // PK (6 char base-36 token)
	CompanyName string    `json:"companyName" dynamodbav:"companyName"` // Host company
	EventTitle  string    `json:"eventTitle" dynamodbav:"eventTitle"`
	Date        string    `json:"date" dynamodbav:"date"`         // Calendar date as entered, e.g. "2026-12-18"
	Location    string    `json:"location" dynamodbav:"location"` // "Not specified" when omitted
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

// TableName returns the DynamoDB table name
func (Party) TableName() string {
	return PartiesTable
}

// CreatePartyRequest is the organizer's form payload
type CreatePartyRequest struct {
	CompanyName string `json:"companyName"`
	EventTitle  string `json:"eventTitle"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

// PartyLinks are the two shareable URLs for a party
type PartyLinks struct {
	RSVPLink  string `json:"rsvpLink"`
	AdminLink string `json:"adminLink"`
}
