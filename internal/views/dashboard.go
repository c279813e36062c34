package views

import (
	"time"

	"courtdesk/internal/models"
)

const dashboardDateLayout = "Monday, January 2, 2006"

type DashboardView struct {
	Date string `json:"date"`
	// StartingSoon lists today's bookings beginning within the alert window
	// that have not been checked in or completed yet.
	StartingSoon []BookingSummary `json:"starting_soon"`
	Upcoming     []BookingSummary `json:"upcoming"`
	Completed    []BookingSummary `json:"completed"`
}

// BuildDashboard projects today's activity out of the full snapshot.
func BuildDashboard(snapshot []models.Booking, now time.Time) DashboardView {
	today := models.DateOf(now)
	nowMin := now.Hour()*60 + now.Minute()

	var todays []models.Booking
	for _, b := range snapshot {
		if b.Date == today {
			todays = append(todays, b)
		}
	}
	sortByStartTime(todays)

	view := DashboardView{Date: now.Format(dashboardDateLayout)}

	for _, b := range todays {
		if b.BookingStatus == models.StatusCompleted {
			view.Completed = append(view.Completed, summarize(b))
			continue
		}

		view.Upcoming = append(view.Upcoming, summarize(b))

		startMin, err := models.ClockMinutes(b.StartTime)
		if err != nil {
			continue
		}
		diff := startMin - nowMin
		if b.BookingStatus != models.StatusCheckedIn && diff > 0 && diff <= models.AlertWindowMinutes {
			view.StartingSoon = append(view.StartingSoon, summarize(b))
		}
	}

	return view
}
