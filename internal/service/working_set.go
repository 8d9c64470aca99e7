package service

import (
	"sort"
	"sync"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

// WorkingSet holds the confirmed bookings last seen per room.
// It is replaced on every fetch and only mutated after the store confirms.
type WorkingSet struct {
	mu     sync.RWMutex
	byRoom map[string][]domain.Booking
	index  map[string]string // booking id -> room id
}

// NewWorkingSet creates an empty working set
func NewWorkingSet() *WorkingSet {
	return &WorkingSet{
		byRoom: make(map[string][]domain.Booking),
		index:  make(map[string]string),
	}
}

// Replace swaps a room's bookings for a fresh fetch result
func (w *WorkingSet) Replace(roomID string, bookings []domain.Booking) {
	fresh := make([]domain.Booking, len(bookings))
	copy(fresh, bookings)
	sortBookings(fresh)

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, b := range w.byRoom[roomID] {
		delete(w.index, b.ID)
	}
	w.byRoom[roomID] = fresh
	for _, b := range fresh {
		w.index[b.ID] = roomID
	}
}

// Append adds a booking the store just confirmed
func (w *WorkingSet) Append(booking domain.Booking) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if roomID, ok := w.index[booking.ID]; ok {
		w.removeLocked(roomID, booking.ID)
	}
	list := append(w.byRoom[booking.RoomID], booking)
	sortBookings(list)
	w.byRoom[booking.RoomID] = list
	w.index[booking.ID] = booking.RoomID
}

// Remove drops a booking and reports whether it was present
func (w *WorkingSet) Remove(bookingID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	roomID, ok := w.index[bookingID]
	if !ok {
		return false
	}
	w.removeLocked(roomID, bookingID)
	return true
}

func (w *WorkingSet) removeLocked(roomID, bookingID string) {
	list := w.byRoom[roomID]
	for i := range list {
		if list[i].ID == bookingID {
			w.byRoom[roomID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	delete(w.index, bookingID)
}

// Room returns a copy of a room's bookings in check-in order
func (w *WorkingSet) Room(roomID string) []domain.Booking {
	w.mu.RLock()
	defer w.mu.RUnlock()

	list := w.byRoom[roomID]
	out := make([]domain.Booking, len(list))
	copy(out, list)
	return out
}

// Get returns a copy of a booking
func (w *WorkingSet) Get(bookingID string) (domain.Booking, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	roomID, ok := w.index[bookingID]
	if !ok {
		return domain.Booking{}, false
	}
	for _, b := range w.byRoom[roomID] {
		if b.ID == bookingID {
			return b, true
		}
	}
	return domain.Booking{}, false
}

// Len returns the number of bookings across all rooms
func (w *WorkingSet) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.index)
}

func sortBookings(list []domain.Booking) {
	sort.SliceStable(list, func(i, j int) bool {
		if c := list[i].CheckIn.Compare(list[j].CheckIn); c != 0 {
			return c < 0
		}
		return list[i].ID < list[j].ID
	})
}
