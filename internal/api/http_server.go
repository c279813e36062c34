package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"courtdesk/internal/app"
	"courtdesk/internal/config"
	"courtdesk/internal/domain"
	"courtdesk/internal/export"
	"courtdesk/internal/models"
	"courtdesk/internal/service"
	"courtdesk/internal/session"

	"github.com/rs/zerolog"
)

// HTTPServer is the thin presentation binding over the app layer: every
// endpoint decodes the request into a State, runs one handler, and renders
// the result. No view logic lives here.
type HTTPServer struct {
	cfg      config.APIConfig
	app      *app.App
	sessions *session.Service
	exporter *export.Exporter
	clock    domain.Clock
	logger   *zerolog.Logger
	server   *http.Server
}

func NewHTTPServer(cfg config.APIConfig, a *app.App, sessions *session.Service, exporter *export.Exporter, clock domain.Clock, logger *zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:      cfg,
		app:      a,
		sessions: sessions,
		exporter: exporter,
		clock:    clock,
		logger:   logger,
	}

	mux.HandleFunc("/api/v1/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/logout", srv.handleLogout)
	mux.HandleFunc("/api/v1/lookup", srv.handleLookup)
	mux.HandleFunc("/api/v1/views/", srv.handleView)
	mux.HandleFunc("/api/v1/bookings", srv.handleCreateBooking)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBooking)
	mux.HandleFunc("/api/v1/export", srv.handleExport)

	handler := srv.loggingMiddleware(srv.authMiddleware(newRateLimiter(cfg.RateLimit).wrap(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the configured handler chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	st, err := s.app.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": st.Session.Token,
		"user":  st.Session.User,
		"view":  st.View,
	})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st, ok := s.stateFrom(w, r)
	if !ok {
		return
	}

	if _, err := s.app.Logout(r.Context(), st); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleLookup resolves a booking by verification code. Deliberately
// unauthenticated: customers check their own booking with just the code.
func (s *HTTPServer) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	_, booking, err := s.app.LookupCode(app.State{}, code)
	if err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st, ok := s.stateFrom(w, r)
	if !ok {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/v1/views/")
	st, err := s.app.Navigate(st, name)
	if err != nil {
		writeActionError(w, err)
		return
	}

	q := r.URL.Query()
	if date := strings.TrimSpace(q.Get("date")); date != "" {
		if st, err = s.app.SetDate(st, date); err != nil {
			writeActionError(w, err)
			return
		}
	}
	if court := strings.TrimSpace(q.Get("court")); court != "" && court != "all" {
		n, convErr := strconv.Atoi(court)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "invalid court filter")
			return
		}
		st = s.app.SetCourtFilter(st, n)
	}
	st = s.app.SetSearch(st, q.Get("search"))
	if selected := strings.TrimSpace(q.Get("selected")); selected != "" {
		if st, err = s.app.SelectBooking(st, selected); err != nil {
			writeActionError(w, err)
			return
		}
	}

	page, err := s.app.Render(st)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st, ok := s.stateFrom(w, r)
	if !ok {
		return
	}

	var input service.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.app.Create(r.Context(), st, input)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// handleBooking routes /api/v1/bookings/{id}[/{action}].
func (s *HTTPServer) handleBooking(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")
	parts := strings.SplitN(rest, "/", 2)
	id := strings.TrimSpace(parts[0])
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	st, ok := s.stateFrom(w, r)
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.handleBookingDetail(w, st, id)
	case action == "" && r.Method == http.MethodDelete:
		s.handleDelete(w, r, st, id)
	case action == "checkin" && r.Method == http.MethodPost:
		s.handleCheckIn(w, r, st, id)
	case action == "reschedule" && r.Method == http.MethodPost:
		s.handleReschedule(w, r, st, id)
	case action == "move" && r.Method == http.MethodPost:
		s.handleMove(w, r, st, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingDetail(w http.ResponseWriter, st app.State, id string) {
	st, err := s.app.SelectBooking(st, id)
	if err != nil {
		writeActionError(w, err)
		return
	}
	page, err := s.app.Render(st)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page.Detail)
}

func (s *HTTPServer) handleCheckIn(w http.ResponseWriter, r *http.Request, st app.State, id string) {
	if _, err := s.app.CheckIn(r.Context(), st, id); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusCheckedIn})
}

func (s *HTTPServer) handleReschedule(w http.ResponseWriter, r *http.Request, st app.State, id string) {
	var body struct {
		Court     int    `json:"court"`
		Date      string `json:"date"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.app.Reschedule(r.Context(), st, id, body.Court, body.Date, body.StartTime, body.EndTime)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// handleDelete is two-step: without confirm=true it only stages the action
// and echoes the confirmation prompt.
func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request, st app.State, id string) {
	st, err := s.app.RequestDelete(st, id)
	if err != nil {
		writeActionError(w, err)
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusOK, map[string]any{
			"requires_confirmation": true,
			"prompt":                st.Pending.Prompt,
		})
		return
	}

	if _, err := s.app.Confirm(r.Context(), st); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *HTTPServer) handleMove(w http.ResponseWriter, r *http.Request, st app.State, id string) {
	var body struct {
		Court     int    `json:"court"`
		StartTime string `json:"start_time"`
		Confirm   bool   `json:"confirm"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	st, err := s.app.RequestMove(st, id, body.Court, body.StartTime)
	if err != nil {
		writeActionError(w, err)
		return
	}
	if st.Pending == nil {
		// Dropped on its own slot.
		writeJSON(w, http.StatusOK, map[string]string{"status": "unchanged"})
		return
	}

	if !body.Confirm {
		writeJSON(w, http.StatusOK, map[string]any{
			"requires_confirmation": true,
			"prompt":                st.Pending.Prompt,
		})
		return
	}

	if _, err := s.app.Confirm(r.Context(), st); err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	st, ok := s.stateFrom(w, r)
	if !ok {
		return
	}
	if !st.Session.User.IsAdmin() {
		writeActionError(w, service.ErrPermissionDenied)
		return
	}

	q := r.URL.Query()
	start, err := time.Parse(models.DateLayout, q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date; expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(models.DateLayout, q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date; expected YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end date is before start date")
		return
	}

	path, err := s.exporter.ExportSchedule(start, end)
	if err != nil {
		writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_path": path})
}

// stateFrom builds the request's State from the authenticated session.
func (s *HTTPServer) stateFrom(w http.ResponseWriter, r *http.Request) (app.State, bool) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeActionError(w, session.ErrNoSession)
		return app.State{}, false
	}
	return app.State{
		Session:      sess,
		ScheduleDate: models.DateOf(s.clock.Now()),
	}, true
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
