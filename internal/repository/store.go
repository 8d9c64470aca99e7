package repository

import (
	"context"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

// BookingStore is the CRUD contract the booking engine relies on. The
// store is the only durable authority for bookings.
type BookingStore interface {
	// ListBookings returns every booking of a room
	ListBookings(ctx context.Context, roomID string) ([]domain.Booking, error)

	// ListBookingsByUser returns every booking held by a user
	ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error)

	// CreateBooking persists a new booking. A duplicate id fails with
	// domain.ErrBookingAlreadyExists.
	CreateBooking(ctx context.Context, booking *domain.Booking) error

	// DeleteBooking removes a booking, domain.ErrBookingNotFound if absent
	DeleteBooking(ctx context.Context, bookingID string) error
}

// RoomStore is the read side of the room catalog
type RoomStore interface {
	ListRooms(ctx context.Context) ([]*domain.Room, error)

	// GetRoom returns domain.ErrRoomNotFound when absent
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
}

// UserStore holds accounts
type UserStore interface {
	// Create fails with domain.ErrUserAlreadyExists on a taken email
	Create(ctx context.Context, user *domain.User) error

	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
