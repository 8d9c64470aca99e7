package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

var errStoreDown = errors.New("store unavailable")

type transition struct {
	from, to CommitState
}

func newTestCommitter(store *MockBookingStore, pub EventPublisher) (*BookingCommitter, *[]transition) {
	var seen []transition
	c := NewBookingCommitter(store, NewWorkingSet(), pub, &BookingCommitterConfig{
		Observer: func(roomID string, from, to CommitState, err error) {
			seen = append(seen, transition{from, to})
		},
		IDGenerator: func() string { return "new-booking" },
		Clock:       func() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC) },
	})
	return c, &seen
}

func existingRoom1() []domain.Booking {
	return []domain.Booking{booking("b1", "room-1", "user-2", "2024-02-01", "2024-02-05")}
}

func TestCommit_AcceptsAdjacentRange(t *testing.T) {
	var created *domain.Booking
	store := &MockBookingStore{
		ListBookingsFunc: func(ctx context.Context, roomID string) ([]domain.Booking, error) {
			return existingRoom1(), nil
		},
		CreateBookingFunc: func(ctx context.Context, b *domain.Booking) error {
			created = b
			return nil
		},
	}
	pub := &MockEventPublisher{}
	c, seen := newTestCommitter(store, pub)

	got, err := c.Commit(context.Background(), guest, "room-1", rng("2024-02-05", "2024-02-08"))
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if got.ID != "new-booking" || got.UserID != "user-1" || got.RoomID != "room-1" {
		t.Errorf("Commit() = %+v", got)
	}
	if created == nil || created.CheckIn.String() != "2024-02-05" || created.CheckOut.String() != "2024-02-08" {
		t.Errorf("CreateBooking got %+v", created)
	}
	if !equalIDs(c.WorkingSet().Room("room-1"), "b1", "new-booking") {
		t.Errorf("working set = %v, want [b1 new-booking]", ids(c.WorkingSet().Room("room-1")))
	}
	if len(pub.Events) != 1 || pub.Events[0] != domain.BookingEventCreated {
		t.Errorf("published %v, want [booking.created]", pub.Events)
	}

	want := []transition{
		{StateIdle, StateValidating},
		{StateValidating, StateCommitting},
		{StateCommitting, StateCommitted},
	}
	if len(*seen) != len(want) {
		t.Fatalf("transitions = %v, want %v", *seen, want)
	}
	for i := range want {
		if (*seen)[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, (*seen)[i], want[i])
		}
	}
}

func TestCommit_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		session   *domain.Session
		roomID    string
		candidate domain.DateRange
		list      func(ctx context.Context, roomID string) ([]domain.Booking, error)
		wantErr   error
		wantCalls []string
	}{
		{
			name:      "overlapping range",
			session:   guest,
			roomID:    "room-1",
			candidate: rng("2024-02-03", "2024-02-06"),
			wantErr:   domain.ErrDateConflict,
			wantCalls: []string{"ListBookings"},
		},
		{
			name:      "nil session",
			session:   nil,
			roomID:    "room-1",
			candidate: rng("2024-03-01", "2024-03-02"),
			wantErr:   domain.ErrUnauthenticated,
		},
		{
			name:      "session without user",
			session:   &domain.Session{},
			roomID:    "room-1",
			candidate: rng("2024-02-03", "2024-02-06"),
			wantErr:   domain.ErrUnauthenticated,
		},
		{
			name:      "same day check-out",
			session:   guest,
			roomID:    "room-1",
			candidate: rng("2024-03-01", "2024-03-01"),
			wantErr:   domain.ErrInvalidRange,
		},
		{
			name:      "reversed range",
			session:   guest,
			roomID:    "room-1",
			candidate: rng("2024-03-05", "2024-03-01"),
			wantErr:   domain.ErrInvalidRange,
		},
		{
			name:      "stay longer than the default limit",
			session:   guest,
			roomID:    "room-1",
			candidate: rng("2024-01-01", "9999-12-31"),
			wantErr:   domain.ErrInvalidRange,
		},
		{
			name:      "missing room",
			session:   guest,
			roomID:    "",
			candidate: rng("2024-03-01", "2024-03-02"),
			wantErr:   domain.ErrInvalidRoomID,
		},
		{
			name:      "fetch failure",
			session:   guest,
			roomID:    "room-1",
			candidate: rng("2024-03-01", "2024-03-02"),
			list: func(ctx context.Context, roomID string) ([]domain.Booking, error) {
				return nil, errStoreDown
			},
			wantErr:   domain.ErrStore,
			wantCalls: []string{"ListBookings"},
		},
		{
			name:      "corrupt stored booking",
			session:   guest,
			roomID:    "room-1",
			candidate: rng("2024-03-01", "2024-03-02"),
			list: func(ctx context.Context, roomID string) ([]domain.Booking, error) {
				return []domain.Booking{{ID: "bad", RoomID: roomID}}, nil
			},
			wantErr:   domain.ErrInvalidRange,
			wantCalls: []string{"ListBookings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := tt.list
			if list == nil {
				list = func(ctx context.Context, roomID string) ([]domain.Booking, error) {
					return existingRoom1(), nil
				}
			}
			store := &MockBookingStore{ListBookingsFunc: list}
			pub := &MockEventPublisher{}
			c, seen := newTestCommitter(store, pub)

			got, err := c.Commit(context.Background(), tt.session, tt.roomID, tt.candidate)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Commit() error = %v, want %v", err, tt.wantErr)
			}
			if got != nil {
				t.Errorf("Commit() returned booking %+v on rejection", got)
			}

			calls := store.Calls()
			if len(calls) != len(tt.wantCalls) {
				t.Fatalf("store calls = %v, want %v", calls, tt.wantCalls)
			}
			for i := range calls {
				if calls[i] != tt.wantCalls[i] {
					t.Errorf("store call %d = %s, want %s", i, calls[i], tt.wantCalls[i])
				}
			}
			if len(pub.Events) != 0 {
				t.Errorf("published %v on rejection", pub.Events)
			}
			last := (*seen)[len(*seen)-1]
			if last.to != StateRejected {
				t.Errorf("final state = %s, want rejected", last.to)
			}
		})
	}
}

func TestCommit_NilSessionRejectedForAnyDates(t *testing.T) {
	ranges := []domain.DateRange{
		rng("2024-02-05", "2024-02-08"),
		rng("2024-02-08", "2024-02-05"),
		{},
	}
	for _, r := range ranges {
		store := &MockBookingStore{}
		c, _ := newTestCommitter(store, nil)
		if _, err := c.Commit(context.Background(), nil, "room-1", r); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("Commit(nil, %v) error = %v, want ErrUnauthenticated", r, err)
		}
		if len(store.Calls()) != 0 {
			t.Errorf("Commit(nil, %v) issued store calls %v", r, store.Calls())
		}
	}
}

func TestCommit_MaxStayNights(t *testing.T) {
	store := &MockBookingStore{
		ListBookingsFunc: func(ctx context.Context, roomID string) ([]domain.Booking, error) {
			return nil, nil
		},
		CreateBookingFunc: func(ctx context.Context, b *domain.Booking) error { return nil },
	}
	c := NewBookingCommitter(store, NewWorkingSet(), nil, &BookingCommitterConfig{MaxStayNights: 7})

	if _, err := c.Commit(context.Background(), guest, "room-1", rng("2024-03-01", "2024-03-08")); err != nil {
		t.Fatalf("Commit(7 nights) error = %v", err)
	}

	before := len(store.Calls())
	_, err := c.Commit(context.Background(), guest, "room-1", rng("2024-04-01", "2024-04-09"))
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("Commit(8 nights) error = %v, want ErrInvalidRange", err)
	}
	if len(store.Calls()) != before {
		t.Errorf("Commit(8 nights) issued store calls %v", store.Calls()[before:])
	}
}

func TestCommit_CreateFailureLeavesWorkingSet(t *testing.T) {
	store := &MockBookingStore{
		ListBookingsFunc: func(ctx context.Context, roomID string) ([]domain.Booking, error) {
			return existingRoom1(), nil
		},
		CreateBookingFunc: func(ctx context.Context, b *domain.Booking) error {
			return errStoreDown
		},
	}
	pub := &MockEventPublisher{}
	c, seen := newTestCommitter(store, pub)

	_, err := c.Commit(context.Background(), guest, "room-1", rng("2024-02-05", "2024-02-08"))
	if !domain.IsStoreError(err) {
		t.Fatalf("Commit() error = %v, want StoreError", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Errorf("Commit() error = %v, want it to wrap the cause", err)
	}
	if !equalIDs(c.WorkingSet().Room("room-1"), "b1") {
		t.Errorf("working set = %v, want [b1]", ids(c.WorkingSet().Room("room-1")))
	}
	if len(pub.Events) != 0 {
		t.Errorf("published %v after failed create", pub.Events)
	}

	last := (*seen)[len(*seen)-1]
	if last != (transition{StateCommitting, StateRejected}) {
		t.Errorf("final transition = %v, want committing -> rejected", last)
	}
}

func TestCommit_WriteSurvivesCallerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	store := &MockBookingStore{
		ListBookingsFunc: func(ctx context.Context, roomID string) ([]domain.Booking, error) {
			cancel() // the client goes away after the read
			return nil, nil
		},
		CreateBookingFunc: func(ctx context.Context, b *domain.Booking) error {
			return ctx.Err()
		},
	}
	c, _ := newTestCommitter(store, nil)

	if _, err := c.Commit(ctx, guest, "room-1", rng("2024-02-05", "2024-02-08")); err != nil {
		t.Fatalf("Commit() error = %v, want write to ignore caller cancellation", err)
	}
}

func TestCommit_PublishFailureDoesNotFail(t *testing.T) {
	store := &MockBookingStore{}
	pub := &MockEventPublisher{Err: errors.New("broker down")}
	c, _ := newTestCommitter(store, pub)

	if _, err := c.Commit(context.Background(), guest, "room-1", rng("2024-02-05", "2024-02-08")); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if c.WorkingSet().Len() != 1 {
		t.Errorf("working set len = %d, want 1", c.WorkingSet().Len())
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name          string
		bookingID     string
		deleteErr     error
		wantErr       error
		wantRemaining []string
		wantEvents    int
	}{
		{"deletes known booking", "b1", nil, nil, []string{}, 1},
		{"unknown id still calls delete", "zzz", domain.ErrBookingNotFound, nil, []string{"b1"}, 1},
		{"store says gone", "b1", domain.ErrBookingNotFound, nil, []string{}, 1},
		{"store error keeps set", "b1", errStoreDown, domain.ErrStore, []string{"b1"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deleted string
			store := &MockBookingStore{
				DeleteBookingFunc: func(ctx context.Context, id string) error {
					deleted = id
					return tt.deleteErr
				},
			}
			pub := &MockEventPublisher{}
			c, _ := newTestCommitter(store, pub)
			c.WorkingSet().Replace("room-1", existingRoom1())

			err := c.Cancel(context.Background(), tt.bookingID)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Cancel() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Cancel() error = %v, want %v", err, tt.wantErr)
			}
			if deleted != tt.bookingID {
				t.Errorf("DeleteBooking(%q), want %q", deleted, tt.bookingID)
			}
			if !equalIDs(c.WorkingSet().Room("room-1"), tt.wantRemaining...) {
				t.Errorf("working set = %v, want %v", ids(c.WorkingSet().Room("room-1")), tt.wantRemaining)
			}
			if len(pub.Events) != tt.wantEvents {
				t.Errorf("published %v, want %d events", pub.Events, tt.wantEvents)
			}
		})
	}
}

func TestCancel_EmptyID(t *testing.T) {
	store := &MockBookingStore{}
	c, _ := newTestCommitter(store, nil)
	if err := c.Cancel(context.Background(), ""); !errors.Is(err, domain.ErrInvalidBookingID) {
		t.Errorf("Cancel(\"\") error = %v, want ErrInvalidBookingID", err)
	}
	if len(store.Calls()) != 0 {
		t.Errorf("store calls = %v, want none", store.Calls())
	}
}

func TestAttempt_IllegalTransitionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on idle -> committed")
		}
	}()
	a := &attempt{state: StateIdle}
	a.to(StateCommitted, nil)
}

func TestCommitState_String(t *testing.T) {
	if StateCommitting.String() != "committing" {
		t.Errorf("String() = %s", StateCommitting.String())
	}
	if CommitState(42).String() != "CommitState(42)" {
		t.Errorf("String() = %s", CommitState(42).String())
	}
}
