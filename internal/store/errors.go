package store

import "errors"

var (
	// ErrNotFound is returned when no booking matches the given id or code.
	ErrNotFound = errors.New("booking not found")

	// ErrDuplicateID is returned on insert when the id is already taken.
	// The sequence-based id scheme should never produce this, but the store
	// still refuses to clobber an existing record.
	ErrDuplicateID = errors.New("duplicate booking id")

	// ErrSlotConflict is returned when a move targets a (court, date, time)
	// slot already held by another booking.
	ErrSlotConflict = errors.New("time slot already occupied")
)
