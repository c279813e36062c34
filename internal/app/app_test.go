package app

import (
	"context"
	"io"
	"testing"
	"time"

	"courtdesk/internal/config"
	"courtdesk/internal/domain"
	"courtdesk/internal/events"
	"courtdesk/internal/models"
	"courtdesk/internal/service"
	"courtdesk/internal/session"
	"courtdesk/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *store.Store, *domain.FixedClock) {
	t.Helper()
	clock := domain.NewFixedClock(time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))
	s := store.New(clock)
	require.NoError(t, store.Seed(s, clock))

	logger := zerolog.New(io.Discard)
	bookings := service.NewBookingService(s, events.NewEventBus(), clock, &logger)
	sessions := session.NewService([]config.UserConfig{
		{Name: "Staff User", Email: "staff@example.com", Password: "password", Role: models.RoleStaff},
		{Name: "Admin User", Email: "admin@example.com", Password: "password", Role: models.RoleAdmin},
	}, session.NewMemorySessionRepository(), clock, &logger)

	return New(s, bookings, sessions, []int{1, 2, 3}, clock, &logger), s, clock
}

func login(t *testing.T, a *App, email string) State {
	t.Helper()
	st, err := a.Login(context.Background(), email, "password")
	require.NoError(t, err)
	return st
}

func TestLoginLandsOnDashboard(t *testing.T) {
	a, _, clock := newTestApp(t)

	st := login(t, a, "admin@example.com")
	assert.Equal(t, models.ViewDashboard, st.View)
	assert.Equal(t, models.DateOf(clock.Now()), st.ScheduleDate)
	assert.True(t, st.LoggedIn())
}

func TestLoginRejected(t *testing.T) {
	a, _, _ := newTestApp(t)

	_, err := a.Login(context.Background(), "admin@example.com", "nope")
	assert.ErrorIs(t, err, session.ErrInvalidCredential)
}

func TestLogoutReturnsToLogin(t *testing.T) {
	a, _, _ := newTestApp(t)
	st := login(t, a, "staff@example.com")

	st, err := a.Logout(context.Background(), st)
	require.NoError(t, err)
	assert.False(t, st.LoggedIn())
	assert.Empty(t, st.View)

	_, err = a.Render(st)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestNavigate(t *testing.T) {
	a, _, _ := newTestApp(t)
	st := login(t, a, "staff@example.com")

	st, err := a.Navigate(st, models.ViewSchedule)
	require.NoError(t, err)
	assert.Equal(t, models.ViewSchedule, st.View)

	_, err = a.Navigate(st, "reports")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestDateControls(t *testing.T) {
	a, _, clock := newTestApp(t)
	st := login(t, a, "staff@example.com")

	st = a.StepDate(st, 1)
	assert.Equal(t, "2026-09-02", st.ScheduleDate)

	st = a.StepDate(st, -2)
	assert.Equal(t, "2026-08-31", st.ScheduleDate)

	st = a.GoToday(st)
	assert.Equal(t, models.DateOf(clock.Now()), st.ScheduleDate)

	st, err := a.SetDate(st, "2026-10-05")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-05", st.ScheduleDate)

	_, err = a.SetDate(st, "tomorrow")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestLookupCode(t *testing.T) {
	a, _, _ := newTestApp(t)
	st := login(t, a, "staff@example.com")

	st, b, err := a.LookupCode(st, "2345")
	require.NoError(t, err)
	assert.Equal(t, "BK002", b.ID)
	assert.Equal(t, "BK002", st.SelectedBookingID)

	before := st
	st, _, err = a.LookupCode(st, "0000")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, before, st, "a failed lookup changes nothing")
}

func TestRenderEachView(t *testing.T) {
	a, _, _ := newTestApp(t)
	st := login(t, a, "admin@example.com")

	page, err := a.Render(st)
	require.NoError(t, err)
	require.NotNil(t, page.Dashboard)
	assert.Len(t, page.Dashboard.Upcoming, 4)

	st, _ = a.Navigate(st, models.ViewSchedule)
	page, err = a.Render(st)
	require.NoError(t, err)
	require.NotNil(t, page.Schedule)
	assert.True(t, page.Schedule.CanDrag)

	st, _ = a.Navigate(st, models.ViewBookings)
	st = a.SetSearch(st, "mike")
	page, err = a.Render(st)
	require.NoError(t, err)
	require.NotNil(t, page.Bookings)
	require.Len(t, page.Bookings.Rows, 1)
	assert.Equal(t, "BK003", page.Bookings.Rows[0].ID)

	st, _ = a.Navigate(st, models.ViewSettings)
	page, err = a.Render(st)
	require.NoError(t, err)
	require.NotNil(t, page.Settings)
	assert.Equal(t, "admin@example.com", page.Settings.Email)
}

func TestRenderIncludesSelectedDetail(t *testing.T) {
	a, _, _ := newTestApp(t)
	st := login(t, a, "staff@example.com")

	st, err := a.SelectBooking(st, "BK003")
	require.NoError(t, err)

	page, err := a.Render(st)
	require.NoError(t, err)
	require.NotNil(t, page.Detail)
	assert.Equal(t, "BK003", page.Detail.Booking.ID)
	assert.Empty(t, page.Detail.Actions, "checked-in booking offers staff nothing")

	st = a.CloseDetail(st)
	page, err = a.Render(st)
	require.NoError(t, err)
	assert.Nil(t, page.Detail)
}

func TestDeleteConfirmFlow(t *testing.T) {
	a, s, _ := newTestApp(t)
	st := login(t, a, "admin@example.com")
	ctx := context.Background()

	st, err := a.SelectBooking(st, "BK004")
	require.NoError(t, err)

	st, err = a.RequestDelete(st, "BK004")
	require.NoError(t, err)
	require.NotNil(t, st.Pending)
	assert.Equal(t, "Are you sure you want to delete booking BK004 for Sarah Williams?", st.Pending.Prompt)
	assert.Equal(t, 4, s.Len(), "nothing deleted before confirmation")

	st, err = a.Confirm(ctx, st)
	require.NoError(t, err)
	assert.Nil(t, st.Pending)
	assert.Equal(t, 3, s.Len())
	assert.Empty(t, st.SelectedBookingID, "detail modal closes with the deleted booking")
}

func TestDeclineLeavesStoreUntouched(t *testing.T) {
	a, s, _ := newTestApp(t)
	st := login(t, a, "admin@example.com")

	st, err := a.RequestDelete(st, "BK001")
	require.NoError(t, err)

	st = a.Decline(st)
	assert.Nil(t, st.Pending)
	assert.Equal(t, 4, s.Len())

	_, err = a.Confirm(context.Background(), st)
	assert.ErrorIs(t, err, ErrNothingPending)
}

func TestMoveConfirmFlow(t *testing.T) {
	a, s, _ := newTestApp(t)
	st := login(t, a, "admin@example.com")

	st, err := a.RequestMove(st, "BK003", 2, "17:00")
	require.NoError(t, err)
	require.NotNil(t, st.Pending)
	assert.Equal(t, "Move booking for Mike Johnson to Court 2 at 17:00-18:30?", st.Pending.Prompt)

	st, err = a.Confirm(context.Background(), st)
	require.NoError(t, err)

	b, err := s.FindByID("BK003")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Court)
	assert.Equal(t, "17:00", b.StartTime)
	assert.Equal(t, "18:30", b.EndTime)
}

func TestMoveSameSlotStagesNothing(t *testing.T) {
	a, _, _ := newTestApp(t)
	st := login(t, a, "admin@example.com")

	st, err := a.RequestMove(st, "BK001", 1, "09:00")
	require.NoError(t, err)
	assert.Nil(t, st.Pending)
}

func TestMoveConflictRejectedBeforePrompt(t *testing.T) {
	a, _, _ := newTestApp(t)
	st := login(t, a, "admin@example.com")

	st, err := a.RequestMove(st, "BK001", 2, "10:00")
	assert.ErrorIs(t, err, store.ErrSlotConflict)
	assert.Nil(t, st.Pending)
}

func TestStaffCannotStageAdminActions(t *testing.T) {
	a, _, _ := newTestApp(t)
	st := login(t, a, "staff@example.com")

	_, err := a.RequestDelete(st, "BK001")
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = a.RequestMove(st, "BK001", 2, "11:00")
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestCheckInThroughApp(t *testing.T) {
	a, s, _ := newTestApp(t)
	st := login(t, a, "staff@example.com")

	_, err := a.CheckIn(context.Background(), st, "BK002")
	require.NoError(t, err)

	b, _ := s.FindByID("BK002")
	assert.Equal(t, models.StatusCheckedIn, b.BookingStatus)
}
