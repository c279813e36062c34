package views

import "courtdesk/internal/models"

type ScheduleView struct {
	Date    string        `json:"date"`
	Courts  []int         `json:"courts"`
	Rows    []ScheduleRow `json:"rows"`
	CanDrag bool          `json:"can_drag"`
}

type ScheduleRow struct {
	Time  string         `json:"time"`
	Cells []ScheduleCell `json:"cells"`
}

type ScheduleCell struct {
	Court     int             `json:"court"`
	Time      string          `json:"time"`
	Booking   *BookingSummary `json:"booking,omitempty"`
	Draggable bool            `json:"draggable"`
	Droppable bool            `json:"droppable"`
}

// BuildSchedule projects the hourly grid for one date. courtFilter narrows to
// a single court when non-zero. Each cell carries at most the booking whose
// startTime equals the slot exactly; longer bookings appear only in their
// starting slot. Only the admin grid is interactive.
func BuildSchedule(snapshot []models.Booking, date string, courts []int, courtFilter int, role string) ScheduleView {
	shown := courts
	if courtFilter != 0 {
		shown = nil
		for _, c := range courts {
			if c == courtFilter {
				shown = []int{c}
				break
			}
		}
	}

	var dated []models.Booking
	for _, b := range snapshot {
		if b.Date == date {
			dated = append(dated, b)
		}
	}

	isAdmin := role == models.RoleAdmin
	view := ScheduleView{Date: date, Courts: shown, CanDrag: isAdmin}

	for _, slot := range models.TimeSlots() {
		row := ScheduleRow{Time: slot, Cells: make([]ScheduleCell, 0, len(shown))}
		for _, court := range shown {
			cell := ScheduleCell{Court: court, Time: slot, Droppable: isAdmin}
			for _, b := range dated {
				if b.Court == court && b.StartTime == slot {
					summary := summarize(b)
					cell.Booking = &summary
					cell.Draggable = isAdmin
					break
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		view.Rows = append(view.Rows, row)
	}

	return view
}
