// Package app drives the desk's interaction flow: navigation, code lookup and
// the confirmation-gated commit of destructive actions. Each handler takes
// the current State, consults the services, and returns the next State; the
// caller re-renders from whatever comes back.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtdesk/internal/domain"
	"courtdesk/internal/models"
	"courtdesk/internal/service"
	"courtdesk/internal/session"
	"courtdesk/internal/store"
	"courtdesk/internal/views"

	"github.com/rs/zerolog"
)

var (
	ErrUnknownView      = errors.New("unknown view")
	ErrNothingPending   = errors.New("no action awaiting confirmation")
	ErrNotAuthenticated = session.ErrNoSession
)

type App struct {
	store    *store.Store
	bookings *service.BookingService
	sessions *session.Service
	courts   []int
	clock    domain.Clock
	logger   *zerolog.Logger
}

func New(s *store.Store, bookings *service.BookingService, sessions *session.Service, courts []int, clock domain.Clock, logger *zerolog.Logger) *App {
	return &App{
		store:    s,
		bookings: bookings,
		sessions: sessions,
		courts:   courts,
		clock:    clock,
		logger:   logger,
	}
}

// Login opens a session and lands on the dashboard.
func (a *App) Login(ctx context.Context, email, password string) (State, error) {
	sess, err := a.sessions.Login(ctx, email, password)
	if err != nil {
		return State{}, err
	}

	return State{
		Session:      sess,
		View:         models.ViewDashboard,
		ScheduleDate: models.DateOf(a.clock.Now()),
	}, nil
}

// Logout destroys the session and returns to the login screen: the zero
// State is the login screen.
func (a *App) Logout(ctx context.Context, st State) (State, error) {
	if err := a.sessions.Logout(ctx, st.Session.Token); err != nil {
		return st, err
	}
	return State{}, nil
}

func (a *App) Navigate(st State, view string) (State, error) {
	switch view {
	case models.ViewDashboard, models.ViewSchedule, models.ViewBookings, models.ViewSettings:
	default:
		return st, fmt.Errorf("%w: %s", ErrUnknownView, view)
	}
	st.View = view
	return st, nil
}

// StepDate moves the schedule date by whole days.
func (a *App) StepDate(st State, days int) State {
	t, err := time.Parse(models.DateLayout, st.ScheduleDate)
	if err != nil {
		t = a.clock.Now()
	}
	st.ScheduleDate = models.DateOf(t.AddDate(0, 0, days))
	return st
}

func (a *App) GoToday(st State) State {
	st.ScheduleDate = models.DateOf(a.clock.Now())
	return st
}

func (a *App) SetDate(st State, date string) (State, error) {
	if !models.ValidDate(date) {
		return st, fmt.Errorf("%w: invalid date %q", service.ErrValidation, date)
	}
	st.ScheduleDate = date
	return st, nil
}

func (a *App) SetCourtFilter(st State, court int) State {
	st.CourtFilter = court
	return st
}

func (a *App) SetSearch(st State, term string) State {
	st.Search = term
	return st
}

// LookupCode resolves a booking by its public verification code and selects
// it. A miss leaves the state untouched.
func (a *App) LookupCode(st State, code string) (State, models.Booking, error) {
	b, err := a.store.FindByCode(code)
	if err != nil {
		return st, models.Booking{}, err
	}
	st.SelectedBookingID = b.ID
	return st, b, nil
}

func (a *App) SelectBooking(st State, id string) (State, error) {
	if _, err := a.store.FindByID(id); err != nil {
		return st, err
	}
	st.SelectedBookingID = id
	return st, nil
}

func (a *App) CloseDetail(st State) State {
	st.SelectedBookingID = ""
	return st
}

// CheckIn needs no confirmation step.
func (a *App) CheckIn(ctx context.Context, st State, id string) (State, error) {
	_, err := a.bookings.CheckIn(ctx, st.Session, id)
	return st, err
}

func (a *App) Create(ctx context.Context, st State, input service.CreateInput) (models.Booking, error) {
	return a.bookings.Create(ctx, st.Session, input)
}

func (a *App) Reschedule(ctx context.Context, st State, id string, court int, date, startTime, endTime string) (models.Booking, error) {
	return a.bookings.Reschedule(ctx, st.Session, id, court, date, startTime, endTime)
}

// RequestDelete stages the deletion behind an explicit confirmation prompt.
func (a *App) RequestDelete(st State, id string) (State, error) {
	if !st.Session.User.IsAdmin() {
		return st, service.ErrPermissionDenied
	}
	b, err := a.store.FindByID(id)
	if err != nil {
		return st, err
	}

	st.Pending = &PendingAction{
		Kind:      PendingDelete,
		BookingID: b.ID,
		Prompt:    fmt.Sprintf("Are you sure you want to delete booking %s for %s?", b.ID, b.Customer),
	}
	return st, nil
}

// RequestMove stages a drag-move. Dropping a booking on its own slot returns
// the state unchanged with nothing staged; a conflicting target is rejected
// before any prompt appears.
func (a *App) RequestMove(st State, id string, newCourt int, newStart string) (State, error) {
	if !st.Session.User.IsAdmin() {
		return st, service.ErrPermissionDenied
	}
	b, err := a.store.FindByID(id)
	if err != nil {
		return st, err
	}

	if b.Court == newCourt && b.StartTime == newStart {
		return st, nil
	}
	if a.store.SlotTaken(newCourt, b.Date, newStart, id) {
		return st, store.ErrSlotConflict
	}

	newEnd := shiftedEnd(b, newStart)
	st.Pending = &PendingAction{
		Kind:      PendingMove,
		BookingID: b.ID,
		Court:     newCourt,
		StartTime: newStart,
		Prompt:    fmt.Sprintf("Move booking for %s to Court %d at %s-%s?", b.Customer, newCourt, newStart, newEnd),
	}
	return st, nil
}

// Confirm commits the staged action through the booking service.
func (a *App) Confirm(ctx context.Context, st State) (State, error) {
	if st.Pending == nil {
		return st, ErrNothingPending
	}
	pending := *st.Pending
	st.Pending = nil

	switch pending.Kind {
	case PendingDelete:
		if err := a.bookings.Delete(ctx, st.Session, pending.BookingID); err != nil {
			return st, err
		}
		// Close the detail modal if it was showing the deleted booking.
		if st.SelectedBookingID == pending.BookingID {
			st.SelectedBookingID = ""
		}
		return st, nil
	case PendingMove:
		_, _, err := a.bookings.Move(ctx, st.Session, pending.BookingID, pending.Court, pending.StartTime)
		return st, err
	default:
		return st, fmt.Errorf("%w: %s", ErrNothingPending, pending.Kind)
	}
}

// Decline discards the staged action without touching the store; the caller
// re-renders, which restores the dragged booking to its original position.
func (a *App) Decline(st State) State {
	st.Pending = nil
	return st
}

// Page is the rendered display model for whichever view is active.
type Page struct {
	View      string               `json:"view"`
	Dashboard *views.DashboardView `json:"dashboard,omitempty"`
	Schedule  *views.ScheduleView  `json:"schedule,omitempty"`
	Bookings  *views.BookingsView  `json:"bookings,omitempty"`
	Settings  *views.SettingsView  `json:"settings,omitempty"`
	Detail    *views.DetailView    `json:"detail,omitempty"`
}

// Render projects the active view from the current store snapshot. The
// snapshot is taken once, after all handler mutations, so a page never shows
// an intermediate state.
func (a *App) Render(st State) (Page, error) {
	if !st.LoggedIn() {
		return Page{}, ErrNotAuthenticated
	}

	page := Page{View: st.View}
	snapshot := a.store.Snapshot()
	role := st.Session.User.Role

	switch st.View {
	case models.ViewDashboard:
		v := views.BuildDashboard(snapshot, a.clock.Now())
		page.Dashboard = &v
	case models.ViewSchedule:
		date := st.ScheduleDate
		if date == "" {
			date = models.DateOf(a.clock.Now())
		}
		v := views.BuildSchedule(snapshot, date, a.courts, st.CourtFilter, role)
		page.Schedule = &v
	case models.ViewBookings:
		v := views.BuildBookings(snapshot, st.Search, role)
		page.Bookings = &v
	case models.ViewSettings:
		v := views.BuildSettings(st.Session)
		page.Settings = &v
	default:
		return Page{}, fmt.Errorf("%w: %s", ErrUnknownView, st.View)
	}

	if st.SelectedBookingID != "" {
		if b, err := a.store.FindByID(st.SelectedBookingID); err == nil {
			v := views.BuildDetail(b, role)
			page.Detail = &v
		}
	}

	return page, nil
}

func shiftedEnd(b models.Booking, newStart string) string {
	startMin, err1 := models.ClockMinutes(b.StartTime)
	endMin, err2 := models.ClockMinutes(b.EndTime)
	newStartMin, err3 := models.ClockMinutes(newStart)
	if err1 != nil || err2 != nil || err3 != nil {
		return b.EndTime
	}
	return models.MinutesToClock(newStartMin + (endMin - startMin))
}
