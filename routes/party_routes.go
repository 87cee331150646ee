package routes

import (
	"rsvp_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterPartyRoutes registers the organizer's create flow and the party lookup
func RegisterPartyRoutes(router *mux.Router, controller *controllers.PartyController) {
	router.HandleFunc("/parties", controller.CreatePartyHandler).Methods("POST")          // Create a party
	router.HandleFunc("/parties/{partyId}", controller.GetPartyHandler).Methods("GET") // Party details for the RSVP page
}
