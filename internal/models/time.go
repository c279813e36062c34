package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Scheduling fields are plain strings: dates as YYYY-MM-DD, clocks as HH:MM.
// Within one day HH:MM strings order lexicographically, which is the only
// comparison the store and handlers ever need.

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func ValidClock(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// ClockMinutes converts HH:MM to minutes since midnight.
func ClockMinutes(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesToClock renders minutes since midnight back to HH:MM, wrapping at
// midnight the way a same-day schedule expects never to need.
func MinutesToClock(m int) string {
	m = ((m % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatDuration derives the display duration between two clock values:
// "1 hour", "1.5 hours", "2 hours".
func FormatDuration(start, end string) string {
	a, err1 := ClockMinutes(start)
	b, err2 := ClockMinutes(end)
	if err1 != nil || err2 != nil || b <= a {
		return ""
	}
	hours := float64(b-a) / 60
	if hours == 1 {
		return "1 hour"
	}
	rendered := strconv.FormatFloat(hours, 'f', -1, 64)
	return rendered + " hours"
}

// TimeSlots lists the hourly grid rows, 06:00 through 23:00 inclusive.
func TimeSlots() []string {
	slots := make([]string, 0, DayEndHour-DayStartHour+1)
	for hour := DayStartHour; hour <= DayEndHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
	}
	return slots
}

func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

func ClockOf(t time.Time) string {
	return t.Format(ClockLayout)
}

// MatchesSearch reports whether the booking matches a case-insensitive
// substring search on customer name or booking id.
func (b *Booking) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(b.Customer), term) ||
		strings.Contains(strings.ToLower(b.ID), term)
}
