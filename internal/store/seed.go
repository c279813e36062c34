package store

import (
	"courtdesk/internal/domain"
	"courtdesk/internal/models"
)

// Seed loads the fixed demo dataset, dated "today" per the given clock.
func Seed(s *Store, clock domain.Clock) error {
	today := models.DateOf(clock.Now())

	seedBookings := []models.Booking{
		{
			ID:            "BK001",
			Customer:      "John Doe",
			Phone:         "+1-555-0101",
			Court:         1,
			Date:          today,
			StartTime:     "09:00",
			EndTime:       "10:00",
			Duration:      "1 hour",
			Price:         models.DefaultPrice,
			PaymentStatus: models.PaymentPaid,
			PaymentMethod: models.MethodCard,
			BookingStatus: models.StatusConfirmed,
			Notes:         "Regular customer",
			Code:          "1234",
			Staff:         "Admin User",
			ActivityLog: []models.ActivityEntry{
				{Time: "08:30", Action: "Booking created"},
				{Time: "08:45", Action: "Payment confirmed"},
			},
		},
		{
			ID:            "BK002",
			Customer:      "Jane Smith",
			Phone:         "+1-555-0102",
			Court:         2,
			Date:          today,
			StartTime:     "10:00",
			EndTime:       "11:00",
			Duration:      "1 hour",
			Price:         models.DefaultPrice,
			PaymentStatus: models.PaymentUnpaid,
			PaymentMethod: models.MethodCash,
			BookingStatus: models.StatusPending,
			Code:          "2345",
			Staff:         "Staff User",
			ActivityLog: []models.ActivityEntry{
				{Time: "09:00", Action: "Booking created"},
			},
		},
		{
			ID:            "BK003",
			Customer:      "Mike Johnson",
			Phone:         "+1-555-0103",
			Court:         1,
			Date:          today,
			StartTime:     "14:00",
			EndTime:       "15:30",
			Duration:      "1.5 hours",
			Price:         75,
			PaymentStatus: models.PaymentPaid,
			PaymentMethod: models.MethodOnline,
			BookingStatus: models.StatusCheckedIn,
			Notes:         "Requested better lighting",
			Code:          "3456",
			Staff:         "Admin User",
			ActivityLog: []models.ActivityEntry{
				{Time: "13:30", Action: "Booking created"},
				{Time: "13:35", Action: "Payment confirmed"},
				{Time: "13:55", Action: "Customer checked in"},
			},
		},
		{
			ID:            "BK004",
			Customer:      "Sarah Williams",
			Phone:         "+1-555-0104",
			Court:         3,
			Date:          today,
			StartTime:     "16:00",
			EndTime:       "17:00",
			Duration:      "1 hour",
			Price:         models.DefaultPrice,
			PaymentStatus: models.PaymentUnpaid,
			PaymentMethod: models.MethodCash,
			BookingStatus: models.StatusConfirmed,
			Code:          "4567",
			Staff:         "Staff User",
			ActivityLog: []models.ActivityEntry{
				{Time: "15:00", Action: "Booking created"},
				{Time: "15:30", Action: "Booking confirmed"},
			},
		},
	}

	for _, b := range seedBookings {
		if err := s.Insert(b); err != nil {
			return err
		}
	}
	return nil
}
