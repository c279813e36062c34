package service

import (
	"context"
	"fmt"

	"courtdesk/internal/domain"
	"courtdesk/internal/events"
	"courtdesk/internal/metrics"
	"courtdesk/internal/models"
	"courtdesk/internal/store"

	"github.com/rs/zerolog"
)

// BookingService holds the booking action handlers. Every method validates
// role and input first and leaves the store untouched on any failure; a
// success mutates exactly one record, appends one audit entry and publishes
// one event.
type BookingService struct {
	store    *store.Store
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewBookingService(s *store.Store, eventBus domain.EventPublisher, clock domain.Clock, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    s,
		eventBus: eventBus,
		clock:    clock,
		logger:   logger,
	}
}

// CreateInput carries the add-booking form fields.
type CreateInput struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Court        int    `json:"court"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

// CheckIn transitions a booking to checked-in from any other status. Both
// roles may check customers in.
func (s *BookingService) CheckIn(ctx context.Context, sess models.Session, id string) (models.Booking, error) {
	current, err := s.store.FindByID(id)
	if err != nil {
		return models.Booking{}, s.reject("check_in", err)
	}
	if current.BookingStatus == models.StatusCheckedIn {
		return models.Booking{}, s.reject("check_in", ErrAlreadyCheckedIn)
	}

	action := "Customer checked in by " + sess.User.Name
	updated, err := s.store.Update(id, action, func(b *models.Booking) {
		b.BookingStatus = models.StatusCheckedIn
	})
	if err != nil {
		return models.Booking{}, s.reject("check_in", err)
	}

	s.complete(ctx, "check_in", events.EventBookingCheckedIn, updated, sess)
	return updated, nil
}

// Reschedule updates court, date and times and recomputes the duration.
// Deliberately no slot-conflict check here: rescheduling through the form has
// always allowed stacking, only drag-move checks the target slot.
func (s *BookingService) Reschedule(ctx context.Context, sess models.Session, id string, court int, date, startTime, endTime string) (models.Booking, error) {
	if !sess.User.IsAdmin() {
		return models.Booking{}, s.reject("reschedule", ErrPermissionDenied)
	}
	if err := validateSchedule(court, date, startTime, endTime); err != nil {
		return models.Booking{}, s.reject("reschedule", err)
	}

	action := "Booking rescheduled by " + sess.User.Name
	updated, err := s.store.Update(id, action, func(b *models.Booking) {
		b.Court = court
		b.Date = date
		b.StartTime = startTime
		b.EndTime = endTime
		b.Duration = models.FormatDuration(startTime, endTime)
	})
	if err != nil {
		return models.Booking{}, s.reject("reschedule", err)
	}

	s.complete(ctx, "reschedule", events.EventBookingRescheduled, updated, sess)
	return updated, nil
}

// Create adds a new booking with defaults: unpaid, payment method pending,
// status pending, standard price.
func (s *BookingService) Create(ctx context.Context, sess models.Session, input CreateInput) (models.Booking, error) {
	if !sess.User.IsAdmin() {
		return models.Booking{}, s.reject("create", ErrPermissionDenied)
	}
	if input.CustomerName == "" {
		return models.Booking{}, s.reject("create", fmt.Errorf("%w: customer name is required", ErrValidation))
	}
	if input.Phone == "" {
		return models.Booking{}, s.reject("create", fmt.Errorf("%w: phone is required", ErrValidation))
	}
	if err := validateSchedule(input.Court, input.Date, input.StartTime, input.EndTime); err != nil {
		return models.Booking{}, s.reject("create", err)
	}

	booking := models.Booking{
		ID:            s.store.NextID(),
		Customer:      input.CustomerName,
		Phone:         input.Phone,
		Court:         input.Court,
		Date:          input.Date,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Duration:      models.FormatDuration(input.StartTime, input.EndTime),
		Price:         models.DefaultPrice,
		PaymentStatus: models.PaymentUnpaid,
		PaymentMethod: models.MethodPending,
		BookingStatus: models.StatusPending,
		Code:          s.store.NewCode(),
		Staff:         sess.User.Name,
		ActivityLog: []models.ActivityEntry{
			{
				Time:   models.ClockOf(s.clock.Now()),
				Action: "Booking created by " + sess.User.Name,
			},
		},
	}

	if err := s.store.Insert(booking); err != nil {
		return models.Booking{}, s.reject("create", err)
	}

	s.complete(ctx, "create", events.EventBookingCreated, booking, sess)
	return booking, nil
}

// Delete removes the record entirely. The caller is responsible for the
// explicit confirmation step before invoking this.
func (s *BookingService) Delete(ctx context.Context, sess models.Session, id string) error {
	if !sess.User.IsAdmin() {
		return s.reject("delete", ErrPermissionDenied)
	}

	deleted, err := s.store.FindByID(id)
	if err != nil {
		return s.reject("delete", err)
	}
	if err := s.store.Delete(id); err != nil {
		return s.reject("delete", err)
	}

	s.complete(ctx, "delete", events.EventBookingDeleted, deleted, sess)
	return nil
}

// Move relocates a booking to a new (court, startTime) slot on its current
// date, preserving the duration. Dropping a booking onto its own slot is a
// no-op with no audit entry. Unlike Reschedule, the target slot must be free.
func (s *BookingService) Move(ctx context.Context, sess models.Session, id string, newCourt int, newStart string) (models.Booking, bool, error) {
	if !sess.User.IsAdmin() {
		return models.Booking{}, false, s.reject("move", ErrPermissionDenied)
	}

	current, err := s.store.FindByID(id)
	if err != nil {
		return models.Booking{}, false, s.reject("move", err)
	}

	if current.Court == newCourt && current.StartTime == newStart {
		return current, false, nil
	}

	if !models.ValidClock(newStart) {
		return models.Booking{}, false, s.reject("move", fmt.Errorf("%w: invalid start time %q", ErrValidation, newStart))
	}
	if s.store.SlotTaken(newCourt, current.Date, newStart, id) {
		return models.Booking{}, false, s.reject("move", store.ErrSlotConflict)
	}

	startMin, err := models.ClockMinutes(current.StartTime)
	if err != nil {
		return models.Booking{}, false, s.reject("move", fmt.Errorf("%w: %v", ErrValidation, err))
	}
	endMin, err := models.ClockMinutes(current.EndTime)
	if err != nil {
		return models.Booking{}, false, s.reject("move", fmt.Errorf("%w: %v", ErrValidation, err))
	}
	newStartMin, _ := models.ClockMinutes(newStart)
	newEnd := models.MinutesToClock(newStartMin + (endMin - startMin))

	action := fmt.Sprintf("Booking moved to Court %d at %s by %s", newCourt, newStart, sess.User.Name)
	updated, err := s.store.Update(id, action, func(b *models.Booking) {
		b.Court = newCourt
		b.StartTime = newStart
		b.EndTime = newEnd
	})
	if err != nil {
		return models.Booking{}, false, s.reject("move", err)
	}

	s.complete(ctx, "move", events.EventBookingMoved, updated, sess)
	return updated, true, nil
}

func validateSchedule(court int, date, startTime, endTime string) error {
	if court <= 0 {
		return fmt.Errorf("%w: court is required", ErrValidation)
	}
	if date == "" || startTime == "" || endTime == "" {
		return fmt.Errorf("%w: date, start time and end time are required", ErrValidation)
	}
	if !models.ValidDate(date) {
		return fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	if !models.ValidClock(startTime) || !models.ValidClock(endTime) {
		return fmt.Errorf("%w: times must be HH:MM", ErrValidation)
	}
	if startTime >= endTime {
		return fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}
	return nil
}

func (s *BookingService) complete(ctx context.Context, action, eventType string, b models.Booking, sess models.Session) {
	metrics.IncAction(action)
	_ = s.eventBus.PublishJSON(eventType, events.BookingEventPayload{
		BookingID: b.ID,
		Customer:  b.Customer,
		Court:     b.Court,
		Date:      b.Date,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.BookingStatus,
		Actor:     sess.User.Name,
		ActorRole: sess.User.Role,
	})
	s.logger.Info().
		Str("action", action).
		Str("booking_id", b.ID).
		Str("actor", sess.User.Name).
		Msg("booking action completed")
}

func (s *BookingService) reject(action string, err error) error {
	metrics.IncActionError(ErrorKind(err))
	s.logger.Warn().Err(err).Str("action", action).Msg("booking action rejected")
	return err
}
