package domain

import (
	"strings"
	"time"
)

// Booking is a confirmed reservation of a room. CheckIn is inclusive.
// CheckOut is exclusive for overlap checks but counts as a disabled day.
type Booking struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	CheckIn   Date      `json:"check_in"`
	CheckOut  Date      `json:"check_out"`
	CreatedAt time.Time `json:"created_at"`
}

// Range returns the booking's stay as [CheckIn, CheckOut)
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.CheckIn, End: b.CheckOut}
}

// Nights returns the length of the stay
func (b *Booking) Nights() int {
	return b.Range().Nights()
}

// IsActiveOn reports whether the stay has not ended before today.
// A booking checking out today is still active.
func (b *Booking) IsActiveOn(today Date) bool {
	return !b.CheckOut.Before(today)
}

// BelongsToUser checks if the booking belongs to the specified user
func (b *Booking) BelongsToUser(userID string) bool {
	return b.UserID != "" && b.UserID == userID
}

// Validate checks the fields every stored booking must have
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrInvalidBookingID
	}
	if strings.TrimSpace(b.RoomID) == "" {
		return ErrInvalidRoomID
	}
	if strings.TrimSpace(b.UserID) == "" {
		return ErrInvalidUserID
	}
	if !b.Range().IsValid() {
		return ErrInvalidRange
	}
	return nil
}
