package domain

import "time"

// BookingEventType names a booking lifecycle event
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

// BookingEvent is published after the store confirms a change
type BookingEvent struct {
	EventID    string           `json:"event_id"`
	EventType  BookingEventType `json:"event_type"`
	BookingID  string           `json:"booking_id"`
	RoomID     string           `json:"room_id"`
	UserID     string           `json:"user_id"`
	CheckIn    Date             `json:"check_in"`
	CheckOut   Date             `json:"check_out"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewBookingEvent builds an event for booking
func NewBookingEvent(eventType BookingEventType, booking *Booking, eventID string, now time.Time) *BookingEvent {
	return &BookingEvent{
		EventID:    eventID,
		EventType:  eventType,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		UserID:     booking.UserID,
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		OccurredAt: now.UTC(),
	}
}

// Key partitions events by room so one room's events stay ordered
func (e *BookingEvent) Key() string {
	return e.RoomID
}
