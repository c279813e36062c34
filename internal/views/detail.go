package views

import "courtdesk/internal/models"

const (
	ActionCheckIn    = "checkin"
	ActionReschedule = "reschedule"
	ActionDelete     = "delete"
)

// DetailView is the booking detail modal: every field plus the action
// buttons the current role may use.
type DetailView struct {
	Booking models.Booking `json:"booking"`
	Actions []string       `json:"actions"`
}

// BuildDetail lists actions by role and state: check-in disappears once
// checked in, reschedule and delete are admin-only.
func BuildDetail(b models.Booking, role string) DetailView {
	view := DetailView{Booking: b}

	if b.BookingStatus != models.StatusCheckedIn {
		view.Actions = append(view.Actions, ActionCheckIn)
	}
	if role == models.RoleAdmin {
		view.Actions = append(view.Actions, ActionReschedule, ActionDelete)
	}
	return view
}
