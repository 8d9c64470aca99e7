package dto

import (
	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

// CommitBookingRequest represents request to book a room
type CommitBookingRequest struct {
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
}

// Range parses the requested stay. A malformed date is an invalid range.
func (r *CommitBookingRequest) Range() (domain.DateRange, error) {
	return domain.ParseDateRange(r.CheckIn, r.CheckOut)
}

// BookingResponse represents a booking in API response
type BookingResponse struct {
	ID       string      `json:"id"`
	RoomID   string      `json:"room_id"`
	UserID   string      `json:"user_id"`
	CheckIn  domain.Date `json:"check_in"`
	CheckOut domain.Date `json:"check_out"`
	Nights   int         `json:"nights"`
}

// CancelBookingResponse represents response after cancelling a booking
type CancelBookingResponse struct {
	BookingID string `json:"booking_id"`
	Message   string `json:"message"`
}

// AvailabilityResponse lists the days a date picker must disable
type AvailabilityResponse struct {
	RoomID       string        `json:"room_id"`
	From         domain.Date   `json:"from"`
	To           domain.Date   `json:"to"`
	DisabledDays []domain.Date `json:"disabled_days"`
}

// BookingFromDomain converts domain Booking to BookingResponse
func BookingFromDomain(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:       b.ID,
		RoomID:   b.RoomID,
		UserID:   b.UserID,
		CheckIn:  b.CheckIn,
		CheckOut: b.CheckOut,
		Nights:   b.Nights(),
	}
}

// BookingsFromDomain converts a slice, never returning nil
func BookingsFromDomain(bookings []domain.Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, BookingFromDomain(&bookings[i]))
	}
	return out
}
