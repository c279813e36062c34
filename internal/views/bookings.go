package views

import "courtdesk/internal/models"

type BookingsView struct {
	Search string           `json:"search,omitempty"`
	Rows   []BookingSummary `json:"rows"`
	// CanManage exposes the reschedule/delete affordances; admin only.
	CanManage bool `json:"can_manage"`
}

// BuildBookings projects the flat list, filtered by the search term and
// sorted ascending by start time.
func BuildBookings(snapshot []models.Booking, search string, role string) BookingsView {
	var matched []models.Booking
	for _, b := range snapshot {
		if b.MatchesSearch(search) {
			matched = append(matched, b)
		}
	}
	sortByStartTime(matched)

	view := BookingsView{
		Search:    search,
		CanManage: role == models.RoleAdmin,
		Rows:      make([]BookingSummary, 0, len(matched)),
	}
	for _, b := range matched {
		view.Rows = append(view.Rows, summarize(b))
	}
	return view
}
