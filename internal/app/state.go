package app

import "courtdesk/internal/models"

// State is the whole per-client UI state, passed into and returned from every
// handler. Keeping it explicit (rather than package-level singletons) makes
// each interaction a pure state transition over the shared store.
type State struct {
	Session           models.Session `json:"session"`
	View              string         `json:"view"` // login when empty
	ScheduleDate      string         `json:"schedule_date"`
	CourtFilter       int            `json:"court_filter"` // 0 = all courts
	Search            string         `json:"search"`
	SelectedBookingID string         `json:"selected_booking_id,omitempty"`
	Pending           *PendingAction `json:"pending,omitempty"`
}

// PendingAction is a staged delete or move awaiting the user's explicit
// confirmation. Nothing touches the store until Confirm.
type PendingAction struct {
	Kind      string `json:"kind"` // delete or move
	BookingID string `json:"booking_id"`
	Court     int    `json:"court,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	Prompt    string `json:"prompt"`
}

const (
	PendingDelete = "delete"
	PendingMove   = "move"
)

func (s State) LoggedIn() bool {
	return s.Session.Token != ""
}
