package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"rsvp_server/models"
)

// AdminService is the read-only organizer view over a party's responses
type AdminService struct {
	Parties   PartyStore
	Responses ResponseStore
	Location  *time.Location
}

// NewAdminService creates an AdminService; loc is the zone used for exported timestamps
func NewAdminService(store Store, loc *time.Location) *AdminService {
	if loc == nil {
		loc = time.Local
	}
	return &AdminService{Parties: store, Responses: store, Location: loc}
}

// ListResponses returns every response under the party, unpaginated and in store order
func (s *AdminService) ListResponses(ctx context.Context, partyID string) ([]models.Response, error) {
	responses, err := s.Responses.ListResponses(ctx, partyID)
	if err != nil {
		return nil, ioFailure("list responses", err)
	}
	if responses == nil {
		responses = []models.Response{}
	}
	return responses, nil
}

// Summary returns the party details together with its responses
func (s *AdminService) Summary(ctx context.Context, partyID string) (*models.AdminSummary, error) {
	party, err := getParty(ctx, s.Parties, partyID)
	if err != nil {
		return nil, err
	}

	responses, err := s.ListResponses(ctx, partyID)
	if err != nil {
		return nil, err
	}

	return &models.AdminSummary{
		Party:     party,
		Responses: responses,
		Count:     len(responses),
	}, nil
}

// ExportCSV writes the party's responses to w as CSV and returns the row count.
// A party without responses has nothing to download and yields models.ErrNotFound.
func (s *AdminService) ExportCSV(ctx context.Context, partyID string, w io.Writer) (int, error) {
	responses, err := s.ListResponses(ctx, partyID)
	if err != nil {
		return 0, err
	}
	if len(responses) == 0 {
		return 0, fmt.Errorf("no RSVPs to download for party %s: %w", partyID, models.ErrNotFound)
	}

	if err := WriteCSV(w, responses, s.Location); err != nil {
		return 0, err
	}
	return len(responses), nil
}
