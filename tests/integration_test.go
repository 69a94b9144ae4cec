// Package tests contains integration tests wiring the full stack together
package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitdesk/visitdesk/internal/api"
	"github.com/visitdesk/visitdesk/internal/config"
	"github.com/visitdesk/visitdesk/internal/models"
	"github.com/visitdesk/visitdesk/internal/repository"
	"github.com/visitdesk/visitdesk/internal/service"
	"github.com/visitdesk/visitdesk/internal/web"
)

var departments = []string{"Sales", "Marketing", "Engineering", "HR", "Finance", "Other"}

// setupStack wires repository, service, API, and web UI the way main does
func setupStack(t *testing.T) *http.ServeMux {
	t.Helper()

	repo, err := repository.NewRepository(config.RedisConfig{Enabled: false})
	require.NoError(t, err)

	visitService := service.NewVisitService(repo, departments)

	webHandler, err := web.NewHandler(visitService, "../internal/web/templates")
	require.NoError(t, err)
	t.Cleanup(webHandler.Shutdown)

	visitService.RegisterUpdateCallback(webHandler.NotifyVisitUpdate)

	mux := api.SetupRoutes(visitService)
	webHandler.SetupRoutes(mux)

	return mux
}

func TestRecordAndTrackMeeting(t *testing.T) {
	mux := setupStack(t)

	// The operator records a meeting through the form
	form := url.Values{
		"customer_name":   {"Jane Doe"},
		"photo_id_number": {"X123"},
		"department":      {"Sales"},
		"scheduled_start": {"2024-01-01T09:00"},
		"scheduled_end":   {"2024-01-01T09:30"},
		"waiting_minutes": {"5"},
	}

	req := httptest.NewRequest(http.MethodPost, "/visits/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// The record shows up in the API, newest first
	req = httptest.NewRequest(http.MethodGet, "/api/visits", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var visits []models.Visit
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&visits))
	require.Len(t, visits, 1)

	visit := visits[0]
	assert.Equal(t, "Jane Doe", visit.CustomerName)
	assert.Equal(t, 30, visit.ScheduledDuration)
	assert.Equal(t, 5, visit.WaitingMinutes)
	assert.False(t, visit.ArrivalConfirmed)

	// Walk the stages through the API
	for _, stage := range []string{"arrival", "start", "end"} {
		req = httptest.NewRequest(http.MethodPost, "/api/visits/"+visit.ID+"/stage/"+stage, nil)
		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "toggle %s", stage)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/visits/"+visit.ID, nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var tracked models.Visit
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tracked))
	assert.True(t, tracked.ArrivalConfirmed)
	assert.True(t, tracked.MeetingStarted)
	assert.True(t, tracked.MeetingEnded)
	assert.False(t, tracked.ActualStart.IsZero())
	assert.False(t, tracked.ActualEnd.IsZero())

	// The list view reflects the finished meeting
	req = httptest.NewRequest(http.MethodGet, "/partial/visits", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ended")

	// Deleting goes through the confirmation step
	req = httptest.NewRequest(http.MethodGet, "/visits/delete?id="+visit.ID, nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Delete this meeting?")

	confirm := url.Values{"id": {visit.ID}}
	req = httptest.NewRequest(http.MethodPost, "/visits/delete", strings.NewReader(confirm.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/visits", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	visits = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&visits))
	assert.Empty(t, visits)
}

func TestValidationFailureLeavesUIUsable(t *testing.T) {
	mux := setupStack(t)

	form := url.Values{
		"customer_name":   {"Jane Doe"},
		"scheduled_start": {"2024-01-01T09:00"},
	}

	req := httptest.NewRequest(http.MethodPost, "/visits/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please fill in all required fields")

	// The next interaction works normally
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
