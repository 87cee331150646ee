package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"rsvp_server/models"
	"rsvp_server/services"
	"rsvp_server/utils"

	"github.com/gorilla/mux"
)

var errNoResponses = errors.New("no responses")

// AdminController serves the organizer's summary and exports.
// ExportService is nil when no export bucket is configured.
type AdminController struct {
	AdminService  *services.AdminService
	ExportService *services.ExportService
}

// ListResponsesHandler returns every response for the party
func (c *AdminController) ListResponsesHandler(w http.ResponseWriter, r *http.Request) {
	partyID := mux.Vars(r)["partyId"]

	responses, err := c.AdminService.ListResponses(r.Context(), partyID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load RSVP responses.")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, responses)
}

// SummaryHandler returns the party, its responses and their count
func (c *AdminController) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	partyID := mux.Vars(r)["partyId"]

	summary, err := c.AdminService.Summary(r.Context(), partyID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load party details.")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, summary)
}

// ExportCSVHandler downloads the responses as RSVP_List_{partyId}.csv
func (c *AdminController) ExportCSVHandler(w http.ResponseWriter, r *http.Request) {
	partyID := mux.Vars(r)["partyId"]

	// buffered so a failure can still become a JSON error
	var buf bytes.Buffer
	if _, err := c.AdminService.ExportCSV(r.Context(), partyID, &buf); err != nil {
		writeServiceError(w, r, tagNoResponses(err), "Failed to export RSVP responses.")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFileName(partyID)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ArchiveExportHandler uploads the export to S3 and returns a presigned link
func (c *AdminController) ArchiveExportHandler(w http.ResponseWriter, r *http.Request) {
	partyID := mux.Vars(r)["partyId"]

	archive, err := c.ExportService.Archive(r.Context(), partyID)
	if err != nil {
		writeServiceError(w, r, tagNoResponses(err), "Failed to archive RSVP export.")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, archive)
}

// exports only fail with ErrNotFound when there is nothing to download
func tagNoResponses(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%w: %w", errNoResponses, err)
	}
	return err
}
