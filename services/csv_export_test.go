package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"rsvp_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	responses := []models.Response{
		{
			EmployeeID:      "E1",
			Name:            "Asha, K",
			WorkEmail:       "asha@example.com",
			Attendance:      models.AttendancePresent,
			Drinker:         models.DrinkerYes,
			DrinkPreference: models.DrinkWine,
			SubmittedAt:     time.Date(2026, 12, 1, 15, 4, 5, 0, time.UTC),
		},
		{
			Name:            "Ravi",
			Attendance:      models.AttendanceNotPresent,
			Drinker:         models.NotApplicable,
			DrinkPreference: models.NotApplicable,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, responses, time.UTC))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Employee ID,Name,Work Email,Attendance,Drinker,Drink Preference,Submitted At", strings.Join(records[0], ","))
	assert.Equal(t, []string{"E1", "Asha, K", "asha@example.com", "Present", "Drinker", "Wine", "12/1/2026, 3:04:05 PM"}, records[1])
	assert.Equal(t, []string{"N/A", "Ravi", "N/A", "Not Present", "Not Applicable", "Not Applicable", "N/A"}, records[2])
}

func TestWriteCSV_Location(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	row := csvRow(models.Response{SubmittedAt: time.Date(2026, 12, 1, 20, 0, 0, 0, time.UTC)}, loc)
	assert.Equal(t, "12/2/2026, 1:30:00 AM", row[6])
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "RSVP_List_abc123.csv", ExportFileName("abc123"))
}

func TestAdminService_ExportCSV(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)
	ctx := context.Background()
	require.NoError(t, store.InsertResponse(ctx, models.Response{PartyID: testPartyID, ResponseID: "r1", EmployeeID: "E1", Name: "A"}))
	require.NoError(t, store.InsertResponse(ctx, models.Response{PartyID: testPartyID, ResponseID: "r2", EmployeeID: "E2", Name: "B"}))

	svc := NewAdminService(store, time.UTC)

	var buf bytes.Buffer
	rows, err := svc.ExportCSV(ctx, testPartyID, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "E1,A,"))
	assert.True(t, strings.HasPrefix(lines[2], "E2,B,"))
}

func TestAdminService_ExportCSVEmpty(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)
	svc := NewAdminService(store, time.UTC)

	var buf bytes.Buffer
	_, err := svc.ExportCSV(context.Background(), testPartyID, &buf)
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, buf.Len())
}

func TestAdminService_ListResponses(t *testing.T) {
	store := newMemStore()
	svc := NewAdminService(store, time.UTC)
	ctx := context.Background()

	responses, err := svc.ListResponses(ctx, "empty0")
	require.NoError(t, err)
	assert.NotNil(t, responses)
	assert.Empty(t, responses)

	store.errList = errors.New("boom")
	_, err = svc.ListResponses(ctx, "empty0")
	assert.ErrorIs(t, err, models.ErrIOFailure)
}

func TestAdminService_Summary(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)
	ctx := context.Background()
	require.NoError(t, store.InsertResponse(ctx, models.Response{PartyID: testPartyID, ResponseID: "r1", EmployeeID: "E1", Name: "A"}))

	svc := NewAdminService(store, time.UTC)

	summary, err := svc.Summary(ctx, testPartyID)
	require.NoError(t, err)
	assert.Equal(t, testPartyID, summary.Party.PartyID)
	assert.Equal(t, 1, summary.Count)

	_, err = svc.Summary(ctx, "gone00")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
