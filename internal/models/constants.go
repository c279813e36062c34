package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCheckedIn = "checked-in"
	StatusCompleted = "completed"
)

const (
	PaymentPaid   = "paid"
	PaymentUnpaid = "unpaid"
)

const (
	MethodCard    = "card"
	MethodCash    = "cash"
	MethodOnline  = "online"
	MethodPending = "pending"
)

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

const (
	ViewDashboard = "dashboard"
	ViewSchedule  = "schedule"
	ViewBookings  = "bookings"
	ViewSettings  = "settings"
)

const (
	// DayStartHour and DayEndHour bound the hourly schedule grid.
	DayStartHour = 6
	DayEndHour   = 23

	// DefaultPrice is charged per booking until real pricing exists.
	DefaultPrice = 50

	// AlertWindowMinutes is how far ahead the dashboard warns about
	// bookings that have not checked in yet.
	AlertWindowMinutes = 30

	// LoginRateLimit / LoginRateWindow bound login attempts per email.
	LoginRateLimit  = 5
	LoginRateWindow = 60 // seconds

	// SessionTTL is how long an idle session survives, in seconds.
	SessionTTL = 24 * 60 * 60
)
