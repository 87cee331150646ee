package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"rsvp_server/models"
	"rsvp_server/utils"

	"github.com/rs/zerolog/log"
)

// namePattern is the allow-list for company names and event titles
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)

// PartyService creates and reads parties
type PartyService struct {
	Store  PartyStore
	Events Publisher
	Now    func() time.Time
	NewID  func() string
}

// NewPartyService creates a PartyService with the real clock and ID generator
func NewPartyService(store PartyStore, events Publisher) *PartyService {
	if events == nil {
		events = NopPublisher{}
	}
	return &PartyService{
		Store:  store,
		Events: events,
		Now:    time.Now,
		NewID:  utils.NewPartyID,
	}
}

// ValidateParty checks required fields and the name allow-list
func ValidateParty(req models.CreatePartyRequest) error {
	if strings.TrimSpace(req.CompanyName) == "" {
		return models.NewValidationError("companyName", "Company Name, Event Title, and Date are required")
	}
	if strings.TrimSpace(req.EventTitle) == "" {
		return models.NewValidationError("eventTitle", "Company Name, Event Title, and Date are required")
	}
	if strings.TrimSpace(req.Date) == "" {
		return models.NewValidationError("date", "Company Name, Event Title, and Date are required")
	}
	if !namePattern.MatchString(req.CompanyName) {
		return models.NewValidationError("companyName", "Company Name must not include special characters")
	}
	if !namePattern.MatchString(req.EventTitle) {
		return models.NewValidationError("eventTitle", "Event Title must not include special characters")
	}
	return nil
}

// CreateParty validates the form, generates an identifier and writes the party
// once. A failed write is not retried.
func (s *PartyService) CreateParty(ctx context.Context, req models.CreatePartyRequest) (*models.Party, error) {
	if err := ValidateParty(req); err != nil {
		return nil, err
	}

	location := req.Location
	if strings.TrimSpace(location) == "" {
		location = models.LocationNotSpecified
	}

	party := models.Party{
		PartyID:     s.NewID(),
		CompanyName: req.CompanyName,
		EventTitle:  req.EventTitle,
		Date:        req.Date,
		Location:    location,
		CreatedAt:   s.Now().UTC(),
	}

	if err := s.Store.PutParty(ctx, party); err != nil {
		return nil, ioFailure("create party", err)
	}

	partiesCreated.Inc()
	log.Info().Str("partyId", party.PartyID).Msg("party created")
	publishQuietly(ctx, s.Events, models.EventChannelRSVP, models.EventPartyCreated, map[string]string{
		"partyId": party.PartyID,
	})

	return &party, nil
}

// GetParty reads one party. A missing party is models.ErrNotFound, anything
// else from the store is models.ErrIOFailure.
func (s *PartyService) GetParty(ctx context.Context, partyID string) (*models.Party, error) {
	return getParty(ctx, s.Store, partyID)
}

func getParty(ctx context.Context, store PartyStore, partyID string) (*models.Party, error) {
	if strings.TrimSpace(partyID) == "" {
		return nil, models.NewValidationError("partyId", "party id is required")
	}

	party, err := store.GetParty(ctx, partyID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("party %s: %w", partyID, models.ErrNotFound)
	}
	if err != nil {
		return nil, ioFailure("get party", err)
	}
	return party, nil
}

// BuildLinks derives the invitee and organizer URLs from the public base URL
func BuildLinks(baseURL, partyID string) models.PartyLinks {
	base := strings.TrimRight(baseURL, "/")
	return models.PartyLinks{
		RSVPLink:  fmt.Sprintf("%s/#/rsvp/%s", base, partyID),
		AdminLink: fmt.Sprintf("%s/#/admin/%s", base, partyID),
	}
}
