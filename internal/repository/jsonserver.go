package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

// Wire types of the json-server "db.json" the hotel UI was built against.
// They back both the REST store and the memory store seed file.

// flexID accepts both string and numeric ids, json-server emits either
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid id %s: %w", b, err)
		}
		*f = flexID(n.String())
	}
	return nil
}

type jsonRoom struct {
	ID          flexID   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Price       float64  `json:"price"`
	Capacity    int      `json:"capacity"`
	Available   *bool    `json:"available,omitempty"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
}

func (r *jsonRoom) toDomain() *domain.Room {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return &domain.Room{
		ID:          string(r.ID),
		Name:        r.Name,
		Type:        domain.RoomType(r.Type),
		Price:       r.Price,
		Capacity:    r.Capacity,
		Available:   available,
		Description: r.Description,
		Amenities:   r.Amenities,
		Images:      r.Images,
	}
}

type jsonBooking struct {
	ID       flexID  `json:"id"`
	RoomID   flexID  `json:"roomId"`
	CheckIn  string  `json:"checkIn"`
	CheckOut string  `json:"checkOut"`
	UserID   *string `json:"userId"`
}

// toDomain keeps unparseable dates as zero Dates so the availability
// index reports them as invalid ranges instead of dropping the booking
func (b *jsonBooking) toDomain() domain.Booking {
	out := domain.Booking{
		ID:     string(b.ID),
		RoomID: string(b.RoomID),
	}
	if d, err := domain.ParseDate(strings.TrimSpace(b.CheckIn)); err == nil {
		out.CheckIn = d
	}
	if d, err := domain.ParseDate(strings.TrimSpace(b.CheckOut)); err == nil {
		out.CheckOut = d
	}
	if b.UserID != nil {
		out.UserID = *b.UserID
	}
	return out
}

func fromDomainBooking(b *domain.Booking) jsonBooking {
	out := jsonBooking{
		ID:       flexID(b.ID),
		RoomID:   flexID(b.RoomID),
		CheckIn:  b.CheckIn.String(),
		CheckOut: b.CheckOut.String(),
	}
	if b.UserID != "" {
		uid := b.UserID
		out.UserID = &uid
	}
	return out
}

// Seed is the content of a db.json file
type Seed struct {
	Rooms    []*domain.Room
	Bookings []domain.Booking
}

// LoadSeedFile reads a json-server db.json file
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var raw struct {
		Rooms    []jsonRoom    `json:"rooms"`
		Bookings []jsonBooking `json:"bookings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	seed := &Seed{
		Rooms:    make([]*domain.Room, 0, len(raw.Rooms)),
		Bookings: make([]domain.Booking, 0, len(raw.Bookings)),
	}
	for i := range raw.Rooms {
		seed.Rooms = append(seed.Rooms, raw.Rooms[i].toDomain())
	}
	for i := range raw.Bookings {
		seed.Bookings = append(seed.Bookings, raw.Bookings[i].toDomain())
	}
	return seed, nil
}
