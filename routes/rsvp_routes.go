package routes

import (
	"rsvp_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterRSVPRoutes registers the invitee submission route
func RegisterRSVPRoutes(router *mux.Router, controller *controllers.RSVPController) {
	router.HandleFunc("/parties/{partyId}/responses", controller.SubmitResponseHandler).Methods("POST")
}
