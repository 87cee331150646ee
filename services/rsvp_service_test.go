package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rsvp_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPartyID = "abc123"

var testEpoch = time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC)

func newTestRSVPService(store *memStore) *RSVPService {
	svc := NewRSVPService(store, nil)

	var tick, ids int64
	svc.Now = func() time.Time {
		return testEpoch.Add(time.Duration(atomic.AddInt64(&tick, 1)) * time.Minute)
	}
	svc.NewID = func() string {
		return fmt.Sprintf("resp-%d", atomic.AddInt64(&ids, 1))
	}
	return svc
}

func seedParty(t *testing.T, store *memStore, id string) {
	t.Helper()
	require.NoError(t, store.PutParty(context.Background(), models.Party{
		PartyID:     id,
		CompanyName: "Acme",
		EventTitle:  "Year End",
		Date:        "2026-12-18",
		Location:    "Hall A",
		CreatedAt:   testEpoch,
	}))
}

func TestSubmitResponse_CreateThenUpdate(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)
	svc := newTestRSVPService(store)
	ctx := context.Background()

	result, first, err := svc.SubmitResponse(ctx, testPartyID, models.SubmitResponseRequest{
		Name:       "Asha",
		EmployeeID: "E100",
		Attendance: models.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmitCreated, result)
	assert.Equal(t, "resp-1", first.ResponseID)

	result, second, err := svc.SubmitResponse(ctx, testPartyID, models.SubmitResponseRequest{
		Name:            "Asha K",
		EmployeeID:      "E100",
		Attendance:      models.AttendancePresent,
		Drinker:         models.DrinkerYes,
		DrinkPreference: models.DrinkWine,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmitUpdated, result)
	assert.Equal(t, first.ResponseID, second.ResponseID)

	docs := store.all(testPartyID)
	require.Len(t, docs, 1)
	assert.Equal(t, "Asha K", docs[0].Name)
	assert.Equal(t, models.DrinkWine, docs[0].DrinkPreference)
	assert.True(t, docs[0].SubmittedAt.After(first.SubmittedAt))
}

func TestSubmitResponse_DistinctEmployees(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)
	svc := newTestRSVPService(store)

	for _, id := range []string{"E1", "E2", "E3"} {
		result, _, err := svc.SubmitResponse(context.Background(), testPartyID, models.SubmitResponseRequest{Name: "N", EmployeeID: id})
		require.NoError(t, err)
		assert.Equal(t, models.SubmitCreated, result)
	}
	assert.Len(t, store.all(testPartyID), 3)
}

func TestNormalizeSubmission(t *testing.T) {
	tests := []struct {
		name       string
		req        models.SubmitResponseRequest
		attendance string
		drinker    string
		pref       string
	}{
		{
			name:       "defaults",
			req:        models.SubmitResponseRequest{Name: "A", EmployeeID: "1"},
			attendance: models.AttendancePresent,
			drinker:    models.DrinkerNo,
			pref:       models.NotApplicable,
		},
		{
			name:       "drinker defaults to mocktails",
			req:        models.SubmitResponseRequest{Name: "A", EmployeeID: "1", Drinker: models.DrinkerYes},
			attendance: models.AttendancePresent,
			drinker:    models.DrinkerYes,
			pref:       models.DrinkMocktails,
		},
		{
			name: "not present forces both",
			req: models.SubmitResponseRequest{
				Name: "A", EmployeeID: "1",
				Attendance: models.AttendanceNotPresent, Drinker: models.DrinkerYes, DrinkPreference: models.DrinkBeer,
			},
			attendance: models.AttendanceNotPresent,
			drinker:    models.NotApplicable,
			pref:       models.NotApplicable,
		},
		{
			name: "non-drinker forces preference",
			req: models.SubmitResponseRequest{
				Name: "A", EmployeeID: "1",
				Drinker: models.DrinkerNo, DrinkPreference: models.DrinkWhisky,
			},
			attendance: models.AttendancePresent,
			drinker:    models.DrinkerNo,
			pref:       models.NotApplicable,
		},
		{
			name: "forced fields are not validated",
			req: models.SubmitResponseRequest{
				Name: "A", EmployeeID: "1",
				Attendance: models.AttendanceNotPresent, Drinker: "maybe", DrinkPreference: "Tea",
			},
			attendance: models.AttendanceNotPresent,
			drinker:    models.NotApplicable,
			pref:       models.NotApplicable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NormalizeSubmission(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.attendance, resp.Attendance)
			assert.Equal(t, tt.drinker, resp.Drinker)
			assert.Equal(t, tt.pref, resp.DrinkPreference)
		})
	}
}

func TestNormalizeSubmission_TrimsIdentity(t *testing.T) {
	resp, err := NormalizeSubmission(models.SubmitResponseRequest{Name: "  Asha ", EmployeeID: " E100\t"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", resp.Name)
	assert.Equal(t, "E100", resp.EmployeeID)
}

func TestNormalizeSubmission_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		req   models.SubmitResponseRequest
		field string
	}{
		{"missing name", models.SubmitResponseRequest{EmployeeID: "1"}, "name"},
		{"blank employee id", models.SubmitResponseRequest{Name: "A", EmployeeID: "   "}, "employeeId"},
		{"unknown attendance", models.SubmitResponseRequest{Name: "A", EmployeeID: "1", Attendance: "Maybe"}, "attendance"},
		{"unknown drinker", models.SubmitResponseRequest{Name: "A", EmployeeID: "1", Drinker: "Sometimes"}, "drinker"},
		{"unknown drink", models.SubmitResponseRequest{Name: "A", EmployeeID: "1", Drinker: models.DrinkerYes, DrinkPreference: "Tea"}, "drinkPreference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeSubmission(tt.req)
			require.ErrorIs(t, err, models.ErrValidation)

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSubmitResponse_ValidationDoesNoIO(t *testing.T) {
	store := newMemStore()
	svc := newTestRSVPService(store)

	_, _, err := svc.SubmitResponse(context.Background(), testPartyID, models.SubmitResponseRequest{Name: "A"})
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 0, store.callCount())
}

func TestSubmitResponse_UnknownParty(t *testing.T) {
	store := newMemStore()
	svc := newTestRSVPService(store)

	_, _, err := svc.SubmitResponse(context.Background(), "nope00", models.SubmitResponseRequest{Name: "A", EmployeeID: "1"})
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, store.all("nope00"))
}

func TestSubmitResponse_FindFailure(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)
	store.errFind = errors.New("throttled")
	svc := newTestRSVPService(store)

	_, _, err := svc.SubmitResponse(context.Background(), testPartyID, models.SubmitResponseRequest{Name: "A", EmployeeID: "1"})
	require.ErrorIs(t, err, models.ErrIOFailure)
	assert.Contains(t, err.Error(), "throttled")
	assert.Empty(t, store.all(testPartyID))
}

func TestSubmitResponse_UpdateFailureKeepsPriorDocument(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)
	svc := newTestRSVPService(store)
	ctx := context.Background()

	_, original, err := svc.SubmitResponse(ctx, testPartyID, models.SubmitResponseRequest{Name: "Asha", EmployeeID: "E1"})
	require.NoError(t, err)

	store.errUpdate = errors.New("connection reset")
	_, _, err = svc.SubmitResponse(ctx, testPartyID, models.SubmitResponseRequest{Name: "Changed", EmployeeID: "E1"})
	require.ErrorIs(t, err, models.ErrIOFailure)

	docs := store.all(testPartyID)
	require.Len(t, docs, 1)
	assert.Equal(t, *original, docs[0])
}

func TestSubmitResponse_InsertFailure(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)
	store.errInsert = errors.New("disk full")
	svc := newTestRSVPService(store)

	_, resp, err := svc.SubmitResponse(context.Background(), testPartyID, models.SubmitResponseRequest{Name: "A", EmployeeID: "1"})
	require.ErrorIs(t, err, models.ErrIOFailure)
	assert.Nil(t, resp)
}

func TestSubmitResponse_DuplicatesUpdateFirstMatch(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)
	ctx := context.Background()
	for _, id := range []string{"dup-a", "dup-b"} {
		require.NoError(t, store.InsertResponse(ctx, models.Response{
			PartyID: testPartyID, ResponseID: id, EmployeeID: "E7", Name: "Old",
			Attendance: models.AttendancePresent, Drinker: models.DrinkerNo, DrinkPreference: models.NotApplicable,
		}))
	}
	svc := newTestRSVPService(store)

	result, resp, err := svc.SubmitResponse(ctx, testPartyID, models.SubmitResponseRequest{Name: "New", EmployeeID: "E7"})
	require.NoError(t, err)
	assert.Equal(t, models.SubmitUpdated, result)
	assert.Equal(t, "dup-a", resp.ResponseID)

	docs := store.all(testPartyID)
	require.Len(t, docs, 2)
	assert.Equal(t, "New", docs[0].Name)
	assert.Equal(t, "Old", docs[1].Name)
}

// Two first submissions that both read before either writes both insert.
func TestSubmitResponse_ConcurrentFirstSubmissionsRace(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)

	var barrier sync.WaitGroup
	barrier.Add(2)
	store.findGate = func() {
		barrier.Done()
		barrier.Wait()
	}
	svc := newTestRSVPService(store)

	results := submitConcurrently(t, svc, 2, models.SubmitResponseRequest{Name: "A", EmployeeID: "E9"})
	for _, err := range results {
		require.NoError(t, err)
	}
	assert.Len(t, store.all(testPartyID), 2)
}

func TestSubmitResponse_ConcurrentFirstSubmissionsWithUniqueGuard(t *testing.T) {
	store := newMemStore()
	store.unique = true
	seedParty(t, store, testPartyID)

	var barrier sync.WaitGroup
	barrier.Add(2)
	store.findGate = func() {
		barrier.Done()
		barrier.Wait()
	}
	svc := newTestRSVPService(store)

	results := submitConcurrently(t, svc, 2, models.SubmitResponseRequest{Name: "A", EmployeeID: "E9"})

	var conflicts int
	for _, err := range results {
		if err != nil {
			require.ErrorIs(t, err, models.ErrConflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, conflicts)
	assert.Len(t, store.all(testPartyID), 1)
}

func TestSubmitResponse_PublishFailureDoesNotFail(t *testing.T) {
	store := newMemStore()
	seedParty(t, store, testPartyID)
	pub := &recordingPublisher{err: errors.New("redis down")}
	svc := newTestRSVPService(store)
	svc.Events = pub

	_, _, err := svc.SubmitResponse(context.Background(), testPartyID, models.SubmitResponseRequest{Name: "A", EmployeeID: "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{models.EventResponseSubmitted}, pub.events)
}

func submitConcurrently(t *testing.T, svc *RSVPService, n int, req models.SubmitResponseRequest) []error {
	t.Helper()

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.SubmitResponse(context.Background(), testPartyID, req)
		}(i)
	}
	wg.Wait()
	return errs
}
