package controllers

import (
	"net/http"

	"rsvp_server/models"
	"rsvp_server/services"
	"rsvp_server/utils"

	"github.com/gorilla/mux"
)

// RSVPController handles invitee submissions
type RSVPController struct {
	RSVPService *services.RSVPService
}

type submitResponseResponse struct {
	Message  string              `json:"message"`
	Result   models.SubmitResult `json:"result"`
	Response *models.Response    `json:"response"`
}

// SubmitResponseHandler records or updates an RSVP. A new response is 201, an update 200.
func (c *RSVPController) SubmitResponseHandler(w http.ResponseWriter, r *http.Request) {
	partyID := mux.Vars(r)["partyId"]

	var req models.SubmitResponseRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.WriteJSONResponse(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	result, resp, err := c.RSVPService.SubmitResponse(r.Context(), partyID, req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to submit RSVP.")
		return
	}

	if result == models.SubmitUpdated {
		utils.WriteJSONResponse(w, http.StatusOK, submitResponseResponse{
			Message:  "RSVP Updated Successfully!",
			Result:   result,
			Response: resp,
		})
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, submitResponseResponse{
		Message:  "RSVP Submitted Successfully!",
		Result:   result,
		Response: resp,
	})
}
