package routes

import (
	"rsvp_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterAdminRoutes registers the organizer's read-only views and exports
func RegisterAdminRoutes(router *mux.Router, controller *controllers.AdminController) {
	router.HandleFunc("/parties/{partyId}/responses", controller.ListResponsesHandler).Methods("GET")
	router.HandleFunc("/parties/{partyId}/admin", controller.SummaryHandler).Methods("GET")
	router.HandleFunc("/parties/{partyId}/export.csv", controller.ExportCSVHandler).Methods("GET")

	// only when an export bucket is configured
	if controller.ExportService != nil {
		router.HandleFunc("/parties/{partyId}/exports", controller.ArchiveExportHandler).Methods("POST")
	}
}
