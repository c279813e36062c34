package store

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"courtdesk/internal/domain"
	"courtdesk/internal/models"
)

// Store holds every booking in process memory, in insertion order. All data
// is lost when the process exits; that is the product's declared scope.
// Reads hand out deep copies so projections can never alias stored records.
type Store struct {
	mu       sync.RWMutex
	bookings []*models.Booking
	byID     map[string]*models.Booking
	clock    domain.Clock
}

func New(clock domain.Clock) *Store {
	return &Store{
		byID:  make(map[string]*models.Booking),
		clock: clock,
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

func (s *Store) FindByID(id string) (models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return models.Booking{}, fmt.Errorf("id %s: %w", id, ErrNotFound)
	}
	return b.Clone(), nil
}

// FindByCode resolves a booking by its public verification code. No role
// check applies; customers use this without logging in.
func (s *Store) FindByCode(code string) (models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.Code == code {
			return b.Clone(), nil
		}
	}
	return models.Booking{}, fmt.Errorf("code %s: %w", code, ErrNotFound)
}

func (s *Store) FilterByDate(date string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.Date == date {
			out = append(out, b.Clone())
		}
	}
	return out
}

// FilterBySearch matches case-insensitively on customer name or id substring.
func (s *Store) FilterBySearch(term string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term = strings.TrimSpace(term)
	var out []models.Booking
	for _, b := range s.bookings {
		if b.MatchesSearch(term) {
			out = append(out, b.Clone())
		}
	}
	return out
}

// Snapshot copies the full collection in insertion order.
func (s *Store) Snapshot() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b.Clone())
	}
	return out
}

// Insert adds a new booking. The caller seeds the initial activity log entry
// since its wording names the acting staff member.
func (s *Store) Insert(b models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[b.ID]; exists {
		return fmt.Errorf("id %s: %w", b.ID, ErrDuplicateID)
	}

	stored := b.Clone()
	s.bookings = append(s.bookings, &stored)
	s.byID[stored.ID] = &stored
	return nil
}

// Update applies mutate to the stored record, then appends exactly one audit
// entry stamped with the current wall clock. The record is untouched when the
// id is unknown.
func (s *Store) Update(id string, action string, mutate func(*models.Booking)) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return models.Booking{}, fmt.Errorf("id %s: %w", id, ErrNotFound)
	}

	mutate(b)
	b.ActivityLog = append(b.ActivityLog, models.ActivityEntry{
		Time:   models.ClockOf(s.clock.Now()),
		Action: action,
	})
	return b.Clone(), nil
}

// Delete removes the record entirely. No tombstone remains.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("id %s: %w", id, ErrNotFound)
	}

	delete(s.byID, id)
	for i, b := range s.bookings {
		if b.ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			break
		}
	}
	return nil
}

// SlotTaken reports whether a booking other than excludeID already starts at
// (court, date, startTime).
func (s *Store) SlotTaken(court int, date, startTime, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.ID != excludeID && b.OccupiesSlot(court, date, startTime) {
			return true
		}
	}
	return false
}

// NextID assigns "BK" plus the zero-padded count+1. Known weakness carried
// over from the original scheme: after a delete the sequence can collide with
// a surviving id, which Insert then rejects.
func (s *Store) NextID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("BK%03d", len(s.bookings)+1)
}

// NewCode picks an unused random 4-digit verification code. Random 4-digit
// codes are a known-weak scheme kept as designed; uniqueness within the store
// is still enforced here.
func (s *Store) NewCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	taken := make(map[string]bool, len(s.bookings))
	for _, b := range s.bookings {
		taken[b.Code] = true
	}

	for {
		code := fmt.Sprintf("%04d", 1000+rand.Intn(9000))
		if !taken[code] {
			return code
		}
	}
}
