package service

import (
	"sync"
	"testing"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

func ids(bookings []domain.Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

func equalIDs(got []domain.Booking, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestWorkingSet_ReplaceAppendRemove(t *testing.T) {
	w := NewWorkingSet()

	w.Replace("room-1", []domain.Booking{
		booking("b2", "room-1", "u", "2024-03-01", "2024-03-03"),
		booking("b1", "room-1", "u", "2024-02-01", "2024-02-05"),
	})
	if got := w.Room("room-1"); !equalIDs(got, "b1", "b2") {
		t.Fatalf("Room() = %v, want [b1 b2]", ids(got))
	}

	w.Append(booking("b3", "room-1", "u", "2024-02-05", "2024-02-08"))
	if got := w.Room("room-1"); !equalIDs(got, "b1", "b3", "b2") {
		t.Errorf("Room() after Append = %v, want [b1 b3 b2]", ids(got))
	}

	if !w.Remove("b1") {
		t.Error("Remove(b1) = false, want true")
	}
	if w.Remove("b1") {
		t.Error("second Remove(b1) = true, want false")
	}
	if _, ok := w.Get("b1"); ok {
		t.Error("Get(b1) found a removed booking")
	}
	if got := w.Room("room-1"); !equalIDs(got, "b3", "b2") {
		t.Errorf("Room() after Remove = %v, want [b3 b2]", ids(got))
	}

	// Replace drops ids that are no longer present
	w.Replace("room-1", []domain.Booking{booking("b9", "room-1", "u", "2024-05-01", "2024-05-02")})
	if _, ok := w.Get("b3"); ok {
		t.Error("Get(b3) found a booking dropped by Replace")
	}
	if w.Len() != 1 {
		t.Errorf("Len() = %d, want 1", w.Len())
	}
}

func TestWorkingSet_RoomReturnsCopy(t *testing.T) {
	w := NewWorkingSet()
	w.Append(booking("b1", "room-1", "u", "2024-02-01", "2024-02-05"))

	got := w.Room("room-1")
	got[0].ID = "changed"

	if b, ok := w.Get("b1"); !ok || b.ID != "b1" {
		t.Errorf("working set was mutated through Room() copy")
	}
	if got := w.Room("room-9"); got == nil || len(got) != 0 {
		t.Errorf("Room(unknown) = %v, want empty slice", got)
	}
}

func TestWorkingSet_Concurrent(t *testing.T) {
	w := NewWorkingSet()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			w.Append(booking(string(rune('a'+i%26))+"-x", "room-1", "u", "2024-02-01", "2024-02-02"))
		}(i)
		go func() {
			defer wg.Done()
			_ = w.Room("room-1")
		}()
	}
	wg.Wait()

	if w.Len() != 26 {
		t.Errorf("Len() = %d, want 26", w.Len())
	}
}
