package controllers

import (
	"net/http"

	"rsvp_server/models"
	"rsvp_server/services"
	"rsvp_server/utils"

	"github.com/gorilla/mux"
)

// PartyController handles the organizer's create flow and party lookups
type PartyController struct {
	PartyService  *services.PartyService
	PublicBaseURL string
}

type createPartyResponse struct {
	Message string        `json:"message"`
	PartyID string        `json:"partyId"`
	Party   *models.Party `json:"party"`
	models.PartyLinks
}

// CreatePartyHandler creates a party and returns its RSVP and admin links
func (c *PartyController) CreatePartyHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePartyRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	party, err := c.PartyService.CreateParty(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create party. Please try again.")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, createPartyResponse{
		Message:    "Party created successfully!",
		PartyID:    party.PartyID,
		Party:      party,
		PartyLinks: services.BuildLinks(utils.RequestOrigin(r, c.PublicBaseURL), party.PartyID),
	})
}

// GetPartyHandler returns one party
func (c *PartyController) GetPartyHandler(w http.ResponseWriter, r *http.Request) {
	partyID := mux.Vars(r)["partyId"]

	party, err := c.PartyService.GetParty(r.Context(), partyID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load party.")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, party)
}
