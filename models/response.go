package models

import "time"

// Response is one invitee's RSVP, stored under its party
type Response struct {
	PartyID         string    `json:"partyId" dynamodbav:"partyId"`       // PK
	ResponseID      string    `json:"id" dynamodbav:"responseId"`         // SK, assigned on insert
	EmployeeID      string    `json:"employeeId" dynamodbav:"employeeId"` // De-duplication key
	Name            string    `json:"name" dynamodbav:"name"`
	WorkEmail       string    `json:"workEmail" dynamodbav:"workEmail"`
	Attendance      string    `json:"attendance" dynamodbav:"attendance"`
	Drinker         string    `json:"drinker" dynamodbav:"drinker"`
	DrinkPreference string    `json:"drinkPreference" dynamodbav:"drinkPreference"`
	SubmittedAt     time.Time `json:"submittedAt" dynamodbav:"submittedAt"`
}

// TableName returns the DynamoDB table name
func (Response) TableName() string {
	return ResponsesTable
}

// ResponseKey is the uniqueness marker written by the conditional guard
type ResponseKey struct {
	PartyID    string    `dynamodbav:"partyId"`    // PK
	EmployeeID string    `dynamodbav:"employeeId"` // SK
	ResponseID string    `dynamodbav:"responseId"`
	CreatedAt  time.Time `dynamodbav:"createdAt"`
}

// TableName returns the DynamoDB table name
func (ResponseKey) TableName() string {
	return ResponseKeysTable
}

// SubmitResponseRequest is the invitee's form payload
type SubmitResponseRequest struct {
	Name            string `json:"name"`
	EmployeeID      string `json:"employeeId"`
	WorkEmail       string `json:"workEmail"`
	Attendance      string `json:"attendance"`
	Drinker         string `json:"drinker"`
	DrinkPreference string `json:"drinkPreference"`
}

// SubmitResult tells the caller which branch of the upsert was taken
type SubmitResult string

const (
	SubmitCreated SubmitResult = "created"
	SubmitUpdated SubmitResult = "updated"
)

// AdminSummary is what the admin page renders
type AdminSummary struct {
	Party     *Party     `json:"party"`
	Responses []Response `json:"responses"`
	Count     int        `json:"count"`
}
