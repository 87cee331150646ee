package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"rsvp_server/models"
)

// CSVHeader is the fixed column order of the export
var CSVHeader = []string{"Employee ID", "Name", "Work Email", "Attendance", "Drinker", "Drink Preference", "Submitted At"}

// submittedAtLayout renders like a browser's en-US toLocaleString
const submittedAtLayout = "1/2/2006, 3:04:05 PM"

// ExportFileName is the download name for a party's export
func ExportFileName(partyID string) string {
	return fmt.Sprintf("RSVP_List_%s.csv", partyID)
}

// WriteCSV formats responses as CSV, one row per response in the given order
func WriteCSV(w io.Writer, responses []models.Response, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range responses {
		if err := cw.Write(csvRow(r, loc)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(r models.Response, loc *time.Location) []string {
	submittedAt := models.Placeholder
	if !r.SubmittedAt.IsZero() {
		submittedAt = r.SubmittedAt.In(loc).Format(submittedAtLayout)
	}
	return []string{
		orPlaceholder(r.EmployeeID),
		r.Name,
		orPlaceholder(r.WorkEmail),
		r.Attendance,
		r.Drinker,
		r.DrinkPreference,
		submittedAt,
	}
}

func orPlaceholder(v string) string {
	if v == "" {
		return models.Placeholder
	}
	return v
}
