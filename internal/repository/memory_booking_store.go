package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

// MemoryBookingStore keeps bookings in process memory
type MemoryBookingStore struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

// NewMemoryBookingStore creates an empty store, optionally pre-filled
func NewMemoryBookingStore(seed ...domain.Booking) *MemoryBookingStore {
	s := &MemoryBookingStore{bookings: make(map[string]domain.Booking)}
	for _, b := range seed {
		s.bookings[b.ID] = b
	}
	return s
}

// ListBookings returns a room's bookings ordered by check-in
func (s *MemoryBookingStore) ListBookings(ctx context.Context, roomID string) ([]domain.Booking, error) {
	return s.filter(func(b *domain.Booking) bool { return b.RoomID == roomID }), nil
}

// ListBookingsByUser returns a user's bookings ordered by check-in
func (s *MemoryBookingStore) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.filter(func(b *domain.Booking) bool { return b.UserID == userID }), nil
}

func (s *MemoryBookingStore) filter(keep func(*domain.Booking) bool) []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if keep(&b) {
			out = append(out, b)
		}
	}
	sortByCheckIn(out)
	return out
}

// CreateBooking stores a copy of booking
func (s *MemoryBookingStore) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[booking.ID]; exists {
		return domain.ErrBookingAlreadyExists
	}
	s.bookings[booking.ID] = *booking
	return nil
}

// DeleteBooking removes a booking by id
func (s *MemoryBookingStore) DeleteBooking(ctx context.Context, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[bookingID]; !exists {
		return domain.ErrBookingNotFound
	}
	delete(s.bookings, bookingID)
	return nil
}

// Count returns the number of stored bookings
func (s *MemoryBookingStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

func sortByCheckIn(bookings []domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if c := bookings[i].CheckIn.Compare(bookings[j].CheckIn); c != 0 {
			return c < 0
		}
		return bookings[i].ID < bookings[j].ID
	})
}
