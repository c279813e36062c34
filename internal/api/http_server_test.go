package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courtdesk/internal/app"
	"courtdesk/internal/config"
	"courtdesk/internal/domain"
	"courtdesk/internal/events"
	"courtdesk/internal/export"
	"courtdesk/internal/models"
	"courtdesk/internal/service"
	"courtdesk/internal/session"
	"courtdesk/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUsers = []config.UserConfig{
	{Name: "Alex Morgan", Email: "admin@courtdesk.test", Password: "admin123", Role: models.RoleAdmin},
	{Name: "Jamie Lee", Email: "staff@courtdesk.test", Password: "staff123", Role: models.RoleStaff},
}

func newTestServer(t *testing.T) (*httptest.Server, *store.Store, *domain.FixedClock) {
	t.Helper()

	clock := domain.NewFixedClock(time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))
	logger := zerolog.Nop()

	st := store.New(clock)
	require.NoError(t, store.Seed(st, clock))

	sessions := session.NewService(testUsers, session.NewMemorySessionRepository(), clock, &logger)
	bookings := service.NewBookingService(st, events.NewEventBus(), clock, &logger)
	courts := []int{1, 2, 3}
	a := app.New(st, bookings, sessions, courts, clock, &logger)
	exporter := export.NewExporter(st, courts, t.TempDir(), &logger)

	cfg := config.APIConfig{Port: 0}
	srv := NewHTTPServer(cfg, a, sessions, exporter, clock, &logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st, clock
}

func login(t *testing.T, ts *httptest.Server, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(ts.URL+"/api/v1/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts, _, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "admin@courtdesk.test", "password": "wrong"})
	resp, err := http.Post(ts.URL+"/api/v1/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestViewRequiresToken(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/views/dashboard")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLookupNeedsNoToken(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/lookup?code=1234")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var b models.Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
	assert.Equal(t, "BK001", b.ID)
}

func TestLookupUnknownCode(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/lookup?code=0000")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardView(t *testing.T) {
	ts, _, _ := newTestServer(t)
	token := login(t, ts, "staff@courtdesk.test", "staff123")

	resp := doJSON(t, ts, http.MethodGet, "/api/v1/views/dashboard", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page app.Page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.NotNil(t, page.Dashboard)
	assert.Equal(t, models.ViewDashboard, page.View)
}

func TestScheduleViewWithFilters(t *testing.T) {
	ts, _, clock := newTestServer(t)
	token := login(t, ts, "admin@courtdesk.test", "admin123")

	date := models.DateOf(clock.Now())
	path := fmt.Sprintf("/api/v1/views/schedule?date=%s&court=1", date)
	resp := doJSON(t, ts, http.MethodGet, path, token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page app.Page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.NotNil(t, page.Schedule)
	assert.Equal(t, []int{1}, page.Schedule.Courts)
}

func TestUnknownView(t *testing.T) {
	ts, _, _ := newTestServer(t)
	token := login(t, ts, "staff@courtdesk.test", "staff123")

	resp := doJSON(t, ts, http.MethodGet, "/api/v1/views/reports", token, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckInByStaff(t *testing.T) {
	ts, st, _ := newTestServer(t)
	token := login(t, ts, "staff@courtdesk.test", "staff123")

	resp := doJSON(t, ts, http.MethodPost, "/api/v1/bookings/BK001/checkin", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b, err := st.FindByID("BK001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedIn, b.BookingStatus)
}

func TestCheckInTwiceConflicts(t *testing.T) {
	ts, _, _ := newTestServer(t)
	token := login(t, ts, "staff@courtdesk.test", "staff123")

	resp := doJSON(t, ts, http.MethodPost, "/api/v1/bookings/BK001/checkin", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodPost, "/api/v1/bookings/BK001/checkin", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateBookingAdminOnly(t *testing.T) {
	ts, st, clock := newTestServer(t)

	input := map[string]any{
		"customer_name": "Pat Quinn",
		"phone":         "555-0199",
		"court":         2,
		"date":          models.DateOf(clock.Now()),
		"start_time":    "20:00",
		"end_time":      "21:00",
	}

	staffToken := login(t, ts, "staff@courtdesk.test", "staff123")
	resp := doJSON(t, ts, http.MethodPost, "/api/v1/bookings", staffToken, input)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken := login(t, ts, "admin@courtdesk.test", "admin123")
	resp = doJSON(t, ts, http.MethodPost, "/api/v1/bookings", adminToken, input)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var b models.Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
	assert.Equal(t, "Pat Quinn", b.Customer)
	assert.Equal(t, models.StatusPending, b.BookingStatus)

	_, err := st.FindByID(b.ID)
	assert.NoError(t, err)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	ts, st, _ := newTestServer(t)
	token := login(t, ts, "admin@courtdesk.test", "admin123")

	resp := doJSON(t, ts, http.MethodDelete, "/api/v1/bookings/BK002", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		RequiresConfirmation bool   `json:"requires_confirmation"`
		Prompt               string `json:"prompt"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.RequiresConfirmation)
	assert.Contains(t, out.Prompt, "BK002")

	// Not deleted yet.
	_, err := st.FindByID("BK002")
	require.NoError(t, err)

	resp = doJSON(t, ts, http.MethodDelete, "/api/v1/bookings/BK002?confirm=true", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = st.FindByID("BK002")
	assert.Error(t, err)
}

func TestDeleteForbiddenForStaff(t *testing.T) {
	ts, _, _ := newTestServer(t)
	token := login(t, ts, "staff@courtdesk.test", "staff123")

	resp := doJSON(t, ts, http.MethodDelete, "/api/v1/bookings/BK002", token, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMoveConflict(t *testing.T) {
	ts, _, _ := newTestServer(t)
	token := login(t, ts, "admin@courtdesk.test", "admin123")

	// BK002 occupies Court 2 at 10:00.
	body := map[string]any{"court": 2, "start_time": "10:00", "confirm": true}
	resp := doJSON(t, ts, http.MethodPost, "/api/v1/bookings/BK001/move", token, body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMoveConfirmFlow(t *testing.T) {
	ts, st, _ := newTestServer(t)
	token := login(t, ts, "admin@courtdesk.test", "admin123")

	body := map[string]any{"court": 3, "start_time": "18:00"}
	resp := doJSON(t, ts, http.MethodPost, "/api/v1/bookings/BK001/move", token, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var staged struct {
		RequiresConfirmation bool `json:"requires_confirmation"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&staged))
	resp.Body.Close()
	assert.True(t, staged.RequiresConfirmation)

	body["confirm"] = true
	resp = doJSON(t, ts, http.MethodPost, "/api/v1/bookings/BK001/move", token, body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b, err := st.FindByID("BK001")
	require.NoError(t, err)
	assert.Equal(t, 3, b.Court)
	assert.Equal(t, "18:00", b.StartTime)
	assert.Equal(t, "19:00", b.EndTime)
}

func TestMoveToOwnSlotIsNoop(t *testing.T) {
	ts, st, _ := newTestServer(t)
	token := login(t, ts, "admin@courtdesk.test", "admin123")

	before, err := st.FindByID("BK001")
	require.NoError(t, err)

	body := map[string]any{"court": before.Court, "start_time": before.StartTime, "confirm": true}
	resp := doJSON(t, ts, http.MethodPost, "/api/v1/bookings/BK001/move", token, body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "unchanged", out.Status)

	after, err := st.FindByID("BK001")
	require.NoError(t, err)
	assert.Equal(t, len(before.ActivityLog), len(after.ActivityLog))
}

func TestRescheduleAdminOnly(t *testing.T) {
	ts, st, clock := newTestServer(t)

	payload := map[string]any{
		"court":      1,
		"date":       models.DateOf(clock.Now()),
		"start_time": "15:00",
		"end_time":   "16:30",
	}

	staffToken := login(t, ts, "staff@courtdesk.test", "staff123")
	resp := doJSON(t, ts, http.MethodPost, "/api/v1/bookings/BK001/reschedule", staffToken, payload)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken := login(t, ts, "admin@courtdesk.test", "admin123")
	resp = doJSON(t, ts, http.MethodPost, "/api/v1/bookings/BK001/reschedule", adminToken, payload)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b, err := st.FindByID("BK001")
	require.NoError(t, err)
	assert.Equal(t, "15:00", b.StartTime)
	assert.Equal(t, "1.5 hours", b.Duration)
}

func TestBookingDetail(t *testing.T) {
	ts, _, _ := newTestServer(t)
	token := login(t, ts, "admin@courtdesk.test", "admin123")

	resp := doJSON(t, ts, http.MethodGet, "/api/v1/bookings/BK003", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail struct {
		Booking models.Booking `json:"booking"`
		Actions []string       `json:"actions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	assert.Equal(t, "BK003", detail.Booking.ID)
	assert.Contains(t, detail.Actions, "delete")
}

func TestBookingDetailNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t)
	token := login(t, ts, "staff@courtdesk.test", "staff123")

	resp := doJSON(t, ts, http.MethodGet, "/api/v1/bookings/BK999", token, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportForbiddenForStaff(t *testing.T) {
	ts, _, clock := newTestServer(t)
	token := login(t, ts, "staff@courtdesk.test", "staff123")

	date := models.DateOf(clock.Now())
	path := fmt.Sprintf("/api/v1/export?start=%s&end=%s", date, date)
	resp := doJSON(t, ts, http.MethodGet, path, token, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestExportWritesFile(t *testing.T) {
	ts, _, clock := newTestServer(t)
	token := login(t, ts, "admin@courtdesk.test", "admin123")

	date := models.DateOf(clock.Now())
	path := fmt.Sprintf("/api/v1/export?start=%s&end=%s", date, date)
	resp := doJSON(t, ts, http.MethodGet, path, token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		FilePath string `json:"file_path"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.FilePath)
}

func TestLogout(t *testing.T) {
	ts, _, _ := newTestServer(t)
	token := login(t, ts, "staff@courtdesk.test", "staff123")

	resp := doJSON(t, ts, http.MethodPost, "/api/v1/logout", token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, ts, http.MethodGet, "/api/v1/views/dashboard", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
