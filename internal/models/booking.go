package models

// ActivityEntry is a single audit record on a booking. The log is append-only:
// entries are never rewritten or removed.
type ActivityEntry struct {
	Time   string `json:"time"` // wall clock, HH:MM
	Action string `json:"action"`
}

type Booking struct {
	ID            string          `json:"id"`
	Customer      string          `json:"customer"`
	Phone         string          `json:"phone"`
	Court         int             `json:"court"`
	Date          string          `json:"date"`       // YYYY-MM-DD
	StartTime     string          `json:"start_time"` // HH:MM
	EndTime       string          `json:"end_time"`   // HH:MM, same day, > StartTime
	Duration      string          `json:"duration"`   // display string derived from the times
	Price         int             `json:"price"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method"`
	BookingStatus string          `json:"booking_status"` // pending, confirmed, checked-in, completed
	Notes         string          `json:"notes,omitempty"`
	Code          string          `json:"code"` // 4-digit verification code for public lookup
	Staff         string          `json:"staff"`
	ActivityLog   []ActivityEntry `json:"activity_log"`
}

// Clone returns a deep copy so callers can hand snapshots out without
// exposing the stored activity log slice.
func (b *Booking) Clone() Booking {
	out := *b
	out.ActivityLog = make([]ActivityEntry, len(b.ActivityLog))
	copy(out.ActivityLog, b.ActivityLog)
	return out
}

// OccupiesSlot reports whether the booking starts exactly at the given
// (court, date, startTime) triple. Bookings spanning several hourly slots
// still occupy only their starting slot.
func (b *Booking) OccupiesSlot(court int, date, startTime string) bool {
	return b.Court == court && b.Date == date && b.StartTime == startTime
}
