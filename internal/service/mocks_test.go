package service

import (
	"context"
	"sync"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

// MockBookingStore is a mock implementation of repository.BookingStore
type MockBookingStore struct {
	ListBookingsFunc       func(ctx context.Context, roomID string) ([]domain.Booking, error)
	ListBookingsByUserFunc func(ctx context.Context, userID string) ([]domain.Booking, error)
	CreateBookingFunc      func(ctx context.Context, booking *domain.Booking) error
	DeleteBookingFunc      func(ctx context.Context, bookingID string) error

	mu    sync.Mutex
	calls []string
}

func (m *MockBookingStore) record(op string) {
	m.mu.Lock()
	m.calls = append(m.calls, op)
	m.mu.Unlock()
}

// Calls returns the store operations issued so far
func (m *MockBookingStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockBookingStore) ListBookings(ctx context.Context, roomID string) ([]domain.Booking, error) {
	m.record("ListBookings")
	if m.ListBookingsFunc != nil {
		return m.ListBookingsFunc(ctx, roomID)
	}
	return []domain.Booking{}, nil
}

func (m *MockBookingStore) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	m.record("ListBookingsByUser")
	if m.ListBookingsByUserFunc != nil {
		return m.ListBookingsByUserFunc(ctx, userID)
	}
	return []domain.Booking{}, nil
}

func (m *MockBookingStore) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	m.record("CreateBooking")
	if m.CreateBookingFunc != nil {
		return m.CreateBookingFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingStore) DeleteBooking(ctx context.Context, bookingID string) error {
	m.record("DeleteBooking")
	if m.DeleteBookingFunc != nil {
		return m.DeleteBookingFunc(ctx, bookingID)
	}
	return nil
}

// MockRoomStore is a mock implementation of repository.RoomStore
type MockRoomStore struct {
	ListRoomsFunc func(ctx context.Context) ([]*domain.Room, error)
	GetRoomFunc   func(ctx context.Context, id string) (*domain.Room, error)
}

func (m *MockRoomStore) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	if m.ListRoomsFunc != nil {
		return m.ListRoomsFunc(ctx)
	}
	return []*domain.Room{}, nil
}

func (m *MockRoomStore) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	if m.GetRoomFunc != nil {
		return m.GetRoomFunc(ctx, id)
	}
	return &domain.Room{ID: id}, nil
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	Err error

	mu     sync.Mutex
	Events []domain.BookingEventType
	IDs    []string
}

func (m *MockEventPublisher) add(t domain.BookingEventType, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, t)
	m.IDs = append(m.IDs, b.ID)
	return m.Err
}

func (m *MockEventPublisher) PublishBookingCreated(ctx context.Context, booking *domain.Booking) error {
	return m.add(domain.BookingEventCreated, booking)
}

func (m *MockEventPublisher) PublishBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	return m.add(domain.BookingEventCancelled, booking)
}

func (m *MockEventPublisher) Close() error { return nil }

func booking(id, roomID, userID, in, out string) domain.Booking {
	return domain.Booking{
		ID:       id,
		RoomID:   roomID,
		UserID:   userID,
		CheckIn:  domain.MustParseDate(in),
		CheckOut: domain.MustParseDate(out),
	}
}

func rng(start, end string) domain.DateRange {
	return domain.NewDateRange(domain.MustParseDate(start), domain.MustParseDate(end))
}

var guest = &domain.Session{UserID: "user-1", Email: "guest@velora.com"}
