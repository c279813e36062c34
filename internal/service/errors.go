package service

import (
	"errors"

	"courtdesk/internal/store"
)

var (
	// ErrPermissionDenied is returned when the acting role may not perform
	// the requested action. The rejection is always surfaced to the user;
	// actions never silently no-op.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidation is returned for missing or ill-ordered input fields.
	// Wrapped errors carry the failing field.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyCheckedIn guards check-in idempotence. The original desk hid
	// the button instead; a headless surface needs the rejection here.
	ErrAlreadyCheckedIn = errors.New("booking already checked in")
)

// ErrorKind labels an action error for metrics and the API envelope.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrAlreadyCheckedIn):
		return "already_checked_in"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, store.ErrSlotConflict):
		return "slot_conflict"
	case errors.Is(err, store.ErrDuplicateID):
		return "duplicate_id"
	default:
		return "internal"
	}
}
