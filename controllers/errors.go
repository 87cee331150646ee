package controllers

import (
	"errors"
	"net/http"

	"rsvp_server/models"
	"rsvp_server/utils"

	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeServiceError maps the error taxonomy onto a status code. Store failures
// are logged with their cause and reported to the user as failMessage.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, failMessage string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.WriteJSONResponse(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, models.ErrNotFound):
		utils.WriteJSONResponse(w, http.StatusNotFound, errorResponse{Error: notFoundMessage(err)})
	case errors.Is(err, models.ErrConflict):
		utils.WriteJSONResponse(w, http.StatusConflict, errorResponse{Error: "A response for this Employee ID is already being recorded. Please submit again to update it."})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg(failMessage)
		utils.WriteJSONResponse(w, http.StatusBadGateway, errorResponse{Error: failMessage})
	}
}

func notFoundMessage(err error) string {
	if errors.Is(err, errNoResponses) {
		return "No RSVPs to download."
	}
	return "Party not found!"
}
