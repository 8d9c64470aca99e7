package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/pkg/telemetry"
)

// errUnexpectedStatus marks a response the store contract does not cover
var errUnexpectedStatus = errors.New("unexpected status")

// RESTStore talks to a json-server style API exposing /rooms and /bookings
type RESTStore struct {
	baseURL string
	client  *http.Client
}

// NewRESTStore creates a REST backed store. Outgoing requests carry
// trace context.
func NewRESTStore(baseURL string, timeout time.Duration) *RESTStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RESTStore{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// ListBookings fetches a room's bookings
func (s *RESTStore) ListBookings(ctx context.Context, roomID string) ([]domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.rest.booking.list")
	defer span.End()
	span.SetAttributes(attribute.String("room_id", roomID))

	all, err := s.fetchBookings(ctx, url.Values{"roomId": {roomID}})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// json-server filters loosely, so match exactly here
	out := make([]domain.Booking, 0, len(all))
	for _, b := range all {
		if b.RoomID == roomID {
			out = append(out, b)
		}
	}
	sortByCheckIn(out)

	span.SetStatus(codes.Ok, "")
	return out, nil
}

// ListBookingsByUser fetches a user's bookings
func (s *RESTStore) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.rest.booking.list_by_user")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	all, err := s.fetchBookings(ctx, url.Values{"userId": {userID}})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]domain.Booking, 0, len(all))
	for _, b := range all {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sortByCheckIn(out)

	span.SetStatus(codes.Ok, "")
	return out, nil
}

func (s *RESTStore) fetchBookings(ctx context.Context, query url.Values) ([]domain.Booking, error) {
	var raw []jsonBooking
	if err := s.do(ctx, http.MethodGet, "/bookings?"+query.Encode(), nil, &raw, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	out := make([]domain.Booking, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toDomain())
	}
	return out, nil
}

// CreateBooking posts a new booking
func (s *RESTStore) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.rest.booking.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("room_id", booking.RoomID),
	)

	err := s.do(ctx, http.MethodPost, "/bookings", fromDomainBooking(booking), nil, http.StatusCreated, http.StatusOK)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusConflict {
			return domain.ErrBookingAlreadyExists
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// DeleteBooking deletes a booking, a 404 maps to domain.ErrBookingNotFound
func (s *RESTStore) DeleteBooking(ctx context.Context, bookingID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.rest.booking.delete")
	defer span.End()
	span.SetAttributes(attribute.String("booking_id", bookingID))

	err := s.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(bookingID), nil, nil, http.StatusOK, http.StatusNoContent)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			span.SetStatus(codes.Error, "not found")
			return domain.ErrBookingNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListRooms fetches the room catalog
func (s *RESTStore) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.rest.room.list")
	defer span.End()

	var raw []jsonRoom
	if err := s.do(ctx, http.MethodGet, "/rooms", nil, &raw, http.StatusOK); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	out := make([]*domain.Room, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].toDomain())
	}
	span.SetStatus(codes.Ok, "")
	return out, nil
}

// GetRoom fetches one room, a 404 maps to domain.ErrRoomNotFound
func (s *RESTStore) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.rest.room.get")
	defer span.End()
	span.SetAttributes(attribute.String("room_id", id))

	var raw jsonRoom
	if err := s.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(id), nil, &raw, http.StatusOK); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrRoomNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return raw.toDomain(), nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s %d: %s", errUnexpectedStatus, e.code, e.body)
}

func (e *statusError) Unwrap() error { return errUnexpectedStatus }

func (s *RESTStore) do(ctx context.Context, method, path string, body, out interface{}, okCodes ...int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	accepted := false
	for _, code := range okCodes {
		if resp.StatusCode == code {
			accepted = true
			break
		}
	}
	if !accepted {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(snippet))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
