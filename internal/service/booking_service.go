package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/internal/dto"
	"github.com/mohand-ashraf/velora-hotel/internal/repository"
	"github.com/mohand-ashraf/velora-hotel/pkg/telemetry"
)

const (
	defaultPageSize         = 6
	defaultAvailabilityDays = 90
)

// BookingService defines the read side of bookings
type BookingService interface {
	// Availability returns the disabled days of a room within [from, to]
	Availability(ctx context.Context, roomID string, from, to domain.Date) (*dto.AvailabilityResponse, error)

	// ActiveBookings returns one page of the user's bookings that have not
	// checked out yet, and the total count
	ActiveBookings(ctx context.Context, session *domain.Session, page, pageSize int) ([]domain.Booking, int, error)

	// OwnedBooking returns a booking only if it belongs to the session's user
	OwnedBooking(ctx context.Context, session *domain.Session, bookingID string) (*domain.Booking, error)

	// DefaultWindow is the availability window used when none is given
	DefaultWindow() (from, to domain.Date)

	// PageSize is the page size used when a caller gives none
	PageSize() int
}

// BookingServiceConfig contains configuration for booking service
type BookingServiceConfig struct {
	PageSize         int
	AvailabilityDays int
	Clock            func() time.Time
}

type bookingService struct {
	bookings  repository.BookingStore
	rooms     repository.RoomStore
	committer Committer
	pageSize  int
	days      int
	now       func() time.Time
}

// NewBookingService creates a new booking service. Fetches that refresh
// the working set go through committer.
func NewBookingService(
	bookings repository.BookingStore,
	rooms repository.RoomStore,
	committer Committer,
	cfg *BookingServiceConfig,
) BookingService {
	s := &bookingService{
		bookings:  bookings,
		rooms:     rooms,
		committer: committer,
		pageSize:  defaultPageSize,
		days:      defaultAvailabilityDays,
		now:       time.Now,
	}
	if cfg != nil {
		if cfg.PageSize > 0 {
			s.pageSize = cfg.PageSize
		}
		if cfg.AvailabilityDays > 0 {
			s.days = cfg.AvailabilityDays
		}
		if cfg.Clock != nil {
			s.now = cfg.Clock
		}
	}
	return s
}

func (s *bookingService) today() domain.Date {
	return domain.DateOf(s.now())
}

func (s *bookingService) DefaultWindow() (domain.Date, domain.Date) {
	today := s.today()
	return today, today.AddDays(s.days)
}

func (s *bookingService) PageSize() int {
	return s.pageSize
}

// Availability fetches the room's bookings fresh on every call
func (s *bookingService) Availability(ctx context.Context, roomID string, from, to domain.Date) (*dto.AvailabilityResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.availability")
	defer span.End()

	span.SetAttributes(
		attribute.String("room_id", roomID),
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	)

	if roomID == "" {
		span.SetStatus(codes.Error, "invalid room_id")
		return nil, domain.ErrInvalidRoomID
	}
	if from.IsZero() || to.IsZero() || to.Before(from) {
		span.SetStatus(codes.Error, "invalid window")
		return nil, domain.ErrInvalidRange
	}

	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if domain.IsNotFoundError(err) {
			return nil, err
		}
		return nil, domain.NewStoreError("get_room", err)
	}

	existing, err := s.committer.Refresh(ctx, roomID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	idx := domain.NewAvailabilityIndex(existing)

	span.SetStatus(codes.Ok, "")
	return &dto.AvailabilityResponse{
		RoomID:       roomID,
		From:         from,
		To:           to,
		DisabledDays: idx.BlockedDaysIn(from, to),
	}, nil
}

// ActiveBookings keeps bookings whose check-out is today or later
func (s *bookingService) ActiveBookings(ctx context.Context, session *domain.Session, page, pageSize int) ([]domain.Booking, int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.active_bookings")
	defer span.End()

	if !session.IsAuthenticated() {
		span.SetStatus(codes.Error, "unauthenticated")
		return nil, 0, domain.ErrUnauthenticated
	}
	span.SetAttributes(attribute.String("user_id", session.UserID))

	all, err := s.bookings.ListBookingsByUser(ctx, session.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, domain.NewStoreError("list_bookings_by_user", err)
	}

	today := s.today()
	active := make([]domain.Booking, 0, len(all))
	for _, b := range all {
		if b.IsActiveOn(today) {
			active = append(active, b)
		}
	}
	sortBookings(active)

	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	out := paginate(active, page, pageSize)

	span.SetAttributes(attribute.Int("total", len(active)))
	span.SetStatus(codes.Ok, "")
	return out, len(active), nil
}

// OwnedBooking hides other users' bookings behind ErrBookingNotFound
func (s *bookingService) OwnedBooking(ctx context.Context, session *domain.Session, bookingID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.owned_booking")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	if !session.IsAuthenticated() {
		span.SetStatus(codes.Error, "unauthenticated")
		return nil, domain.ErrUnauthenticated
	}
	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}

	all, err := s.bookings.ListBookingsByUser(ctx, session.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.NewStoreError("list_bookings_by_user", err)
	}

	for i := range all {
		if all[i].ID == bookingID && all[i].BelongsToUser(session.UserID) {
			span.SetStatus(codes.Ok, "")
			b := all[i]
			return &b, nil
		}
	}

	span.SetStatus(codes.Error, "not found")
	return nil, domain.ErrBookingNotFound
}

// paginate returns page (1-based) of items, an empty slice past the end
// paginate never multiplies before bounds checking, so any page or
// pageSize up to MaxInt yields a slice or an empty page.
func paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []T{}
	}
	pages := len(items) / pageSize
	if len(items)%pageSize != 0 {
		pages++
	}
	if page-1 >= pages {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := len(items)
	if pageSize < end-start {
		end = start + pageSize
	}
	return items[start:end]
}
