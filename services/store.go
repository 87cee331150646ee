package services

import (
	"context"

	"rsvp_server/models"
)

// PartyStore reads and writes party documents (parties/{partyId})
type PartyStore interface {
	PutParty(ctx context.Context, party models.Party) error
	// GetParty returns models.ErrNotFound when the party does not exist
	GetParty(ctx context.Context, partyID string) (*models.Party, error)
}

// ResponseStore reads and writes response documents (parties/{partyId}/responses/{responseId})
type ResponseStore interface {
	// FindResponsesByEmployeeID is a value-based filter over the party's
	// responses, returned in store order
	FindResponsesByEmployeeID(ctx context.Context, partyID, employeeID string) ([]models.Response, error)
	// InsertResponse writes a new document. It returns models.ErrConflict
	// when a uniqueness guard rejects the (partyId, employeeId) pair.
	InsertResponse(ctx context.Context, resp models.Response) error
	// UpdateResponse overwrites the editable fields of an existing document
	UpdateResponse(ctx context.Context, resp models.Response) error
	ListResponses(ctx context.Context, partyID string) ([]models.Response, error)
}

// Store is a full backend
type Store interface {
	PartyStore
	ResponseStore
	Close() error
}
