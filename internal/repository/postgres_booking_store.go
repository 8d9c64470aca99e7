package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/pkg/telemetry"
)

const bookingColumns = `id, room_id, user_id, check_in, check_out, created_at`

// PostgresBookingStore implements BookingStore using PostgreSQL with pgxpool
type PostgresBookingStore struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingStore creates a new PostgresBookingStore
func NewPostgresBookingStore(pool *pgxpool.Pool) *PostgresBookingStore {
	return &PostgresBookingStore{pool: pool}
}

// ListBookings returns a room's bookings ordered by check-in
func (s *PostgresBookingStore) ListBookings(ctx context.Context, roomID string) ([]domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list")
	defer span.End()
	span.SetAttributes(attribute.String("room_id", roomID))

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE room_id = $1 ORDER BY check_in, id`
	bookings, err := s.query(ctx, query, roomID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

// ListBookingsByUser returns a user's bookings ordered by check-in
func (s *PostgresBookingStore) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.list_by_user")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY check_in, id`
	bookings, err := s.query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list bookings by user: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return bookings, nil
}

func (s *PostgresBookingStore) query(ctx context.Context, query string, arg string) ([]domain.Booking, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Booking, 0)
	for rows.Next() {
		var (
			b                 domain.Booking
			checkIn, checkOut time.Time
		)
		if err := rows.Scan(&b.ID, &b.RoomID, &b.UserID, &checkIn, &checkOut, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.CheckIn = domain.DateOf(checkIn)
		b.CheckOut = domain.DateOf(checkOut)
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateBooking inserts a booking, a duplicate id is domain.ErrBookingAlreadyExists
func (s *PostgresBookingStore) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("booking_id", booking.ID),
		attribute.String("room_id", booking.RoomID),
		attribute.String("user_id", booking.UserID),
	)

	createdAt := booking.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO bookings (` + bookingColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.pool.Exec(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.UserID,
		booking.CheckIn.Time(),
		booking.CheckOut.Time(),
		createdAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrBookingAlreadyExists
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// DeleteBooking deletes a booking by its ID
func (s *PostgresBookingStore) DeleteBooking(ctx context.Context, bookingID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.booking.delete")
	defer span.End()
	span.SetAttributes(attribute.String("booking_id", bookingID))

	result, err := s.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrBookingNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
