package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rsvp_server/models"
	"rsvp_server/utils"

	"github.com/rs/zerolog/log"
)

// RSVPService records invitee responses, one per (party, employeeId).
//
// SubmitResponse is a read-then-write: it looks for an existing response with
// the same employeeId and either updates it or inserts a new one. Nothing
// holds the two steps together, so two concurrent first submissions for the
// same employeeId can both see no match and both insert. Whether that leaves
// a duplicate depends on the store: the DynamoDB store with the scan guard
// keeps both, the conditional guard and the SQLite unique index reject the
// second insert with models.ErrConflict.
type RSVPService struct {
	Parties   PartyStore
	Responses ResponseStore
	Events    Publisher
	Now       func() time.Time
	NewID     func() string
}

// NewRSVPService creates an RSVPService backed by store
func NewRSVPService(store Store, events Publisher) *RSVPService {
	if events == nil {
		events = NopPublisher{}
	}
	return &RSVPService{
		Parties:   store,
		Responses: store,
		Events:    events,
		Now:       time.Now,
		NewID:     utils.NewResponseID,
	}
}

// NormalizeSubmission validates the form and derives the stored values.
// Defaults follow the RSVP form: Present, Non-Drinker, Mocktails. Drinker and
// drink preference are forced to Not Applicable when they do not apply,
// whatever the client sent for them.
func NormalizeSubmission(req models.SubmitResponseRequest) (models.Response, error) {
	resp := models.Response{
		Name:       strings.TrimSpace(req.Name),
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		WorkEmail:  strings.TrimSpace(req.WorkEmail),
	}
	if resp.Name == "" {
		return models.Response{}, models.NewValidationError("name", "Please enter your Name and Employee ID")
	}
	if resp.EmployeeID == "" {
		return models.Response{}, models.NewValidationError("employeeId", "Please enter your Name and Employee ID")
	}

	attendance := strings.TrimSpace(req.Attendance)
	if attendance == "" {
		attendance = models.AttendancePresent
	}
	switch attendance {
	case models.AttendancePresent, models.AttendanceNotPresent:
	default:
		return models.Response{}, models.NewValidationError("attendance", fmt.Sprintf("unknown attendance %q", attendance))
	}
	resp.Attendance = attendance

	resp.Drinker = models.NotApplicable
	resp.DrinkPreference = models.NotApplicable
	if attendance != models.AttendancePresent {
		return resp, nil
	}

	drinker := strings.TrimSpace(req.Drinker)
	if drinker == "" {
		drinker = models.DrinkerNo
	}
	switch drinker {
	case models.DrinkerYes, models.DrinkerNo:
	default:
		return models.Response{}, models.NewValidationError("drinker", fmt.Sprintf("unknown drinker value %q", drinker))
	}
	resp.Drinker = drinker
	if drinker != models.DrinkerYes {
		return resp, nil
	}

	pref := strings.TrimSpace(req.DrinkPreference)
	if pref == "" {
		pref = models.DrinkMocktails
	}
	if !models.IsDrinkPreference(pref) {
		return models.Response{}, models.NewValidationError("drinkPreference", fmt.Sprintf("unknown drink preference %q", pref))
	}
	resp.DrinkPreference = pref
	return resp, nil
}

// SubmitResponse inserts or updates the response for req.EmployeeID under
// partyID and reports which branch was taken.
//
// When several responses already share the employeeId, the first one the
// store returns is overwritten and the rest are left as they are.
func (s *RSVPService) SubmitResponse(ctx context.Context, partyID string, req models.SubmitResponseRequest) (models.SubmitResult, *models.Response, error) {
	resp, err := NormalizeSubmission(req)
	if err != nil {
		submissions.WithLabelValues("invalid").Inc()
		return "", nil, err
	}

	if _, err := getParty(ctx, s.Parties, partyID); err != nil {
		submissions.WithLabelValues("failed").Inc()
		return "", nil, err
	}

	resp.PartyID = partyID
	resp.SubmittedAt = s.Now().UTC()

	existing, err := s.Responses.FindResponsesByEmployeeID(ctx, partyID, resp.EmployeeID)
	if err != nil {
		submissions.WithLabelValues("failed").Inc()
		return "", nil, ioFailure("find response", err)
	}

	result := models.SubmitCreated
	if len(existing) > 0 {
		if len(existing) > 1 {
			log.Warn().
				Str("partyId", partyID).
				Str("employeeId", resp.EmployeeID).
				Int("matches", len(existing)).
				Msg("duplicate responses for employee, updating the first")
		}
		resp.ResponseID = existing[0].ResponseID
		if err := s.Responses.UpdateResponse(ctx, resp); err != nil {
			submissions.WithLabelValues("failed").Inc()
			return "", nil, ioFailure("update response", err)
		}
		result = models.SubmitUpdated
	} else {
		resp.ResponseID = s.NewID()
		err := s.Responses.InsertResponse(ctx, resp)
		if errors.Is(err, models.ErrConflict) {
			submissions.WithLabelValues("conflict").Inc()
			return "", nil, fmt.Errorf("employee %s already responded to party %s: %w", resp.EmployeeID, partyID, models.ErrConflict)
		}
		if err != nil {
			submissions.WithLabelValues("failed").Inc()
			return "", nil, ioFailure("insert response", err)
		}
	}

	submissions.WithLabelValues(string(result)).Inc()
	log.Info().
		Str("partyId", partyID).
		Str("responseId", resp.ResponseID).
		Str("result", string(result)).
		Msg("rsvp submitted")
	publishQuietly(ctx, s.Events, models.EventChannelRSVP, models.EventResponseSubmitted, map[string]string{
		"partyId":    partyID,
		"responseId": resp.ResponseID,
		"employeeId": resp.EmployeeID,
		"result":     string(result),
	})

	return result, &resp, nil
}
