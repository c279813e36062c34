// Package views builds display models from booking snapshots. Everything here
// is a pure projection: no store access, no mutation, no clock reads beyond
// the injected instant.
package views

import (
	"sort"

	"courtdesk/internal/models"
)

// BookingSummary is the row shape shared by the dashboard, schedule and list
// projections.
type BookingSummary struct {
	ID          string `json:"id"`
	Customer    string `json:"customer"`
	Court       int    `json:"court"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
}

func summarize(b models.Booking) BookingSummary {
	return BookingSummary{
		ID:          b.ID,
		Customer:    b.Customer,
		Court:       b.Court,
		Date:        b.Date,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.BookingStatus,
		StatusLabel: statusLabel(b.BookingStatus),
	}
}

func statusLabel(status string) string {
	switch status {
	case models.StatusCheckedIn:
		return "Checked In"
	case models.StatusCompleted:
		return "Completed"
	default:
		return "Not Yet"
	}
}

func sortByStartTime(bookings []models.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].StartTime < bookings[j].StartTime
	})
}
