package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/pkg/logger"
	"github.com/mohand-ashraf/velora-hotel/pkg/retry"
)

// RetryingBookingStore retries the idempotent store calls (list, delete)
// with exponential backoff. CreateBooking is never retried: a create whose
// response was lost may have been applied.
type RetryingBookingStore struct {
	next    BookingStore
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewRetryingBookingStore wraps next. A nil cfg uses retry.DefaultConfig.
func NewRetryingBookingStore(next BookingStore, cfg *retry.Config, log *logger.Logger) *RetryingBookingStore {
	if cfg == nil {
		cfg = retry.DefaultConfig()
	}
	c := *cfg
	c.ShouldRetry = isTransient
	if log == nil {
		log = logger.Nop()
	}
	return &RetryingBookingStore{next: next, retrier: retry.New(&c), log: log}
}

// isTransient excludes answers the store gave on purpose
func isTransient(err error) bool {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrBookingAlreadyExists),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}

func (s *RetryingBookingStore) run(ctx context.Context, op string, fn retry.Operation) error {
	result := s.retrier.DoWithCallback(ctx, fn, func(attempt int, err error, next time.Duration) {
		s.log.Warn("booking store call failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", next),
			zap.Error(err),
		)
	})
	return result.Err
}

// ListBookings retries transient failures
func (s *RetryingBookingStore) ListBookings(ctx context.Context, roomID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := s.run(ctx, "list_bookings", func(ctx context.Context) error {
		var err error
		out, err = s.next.ListBookings(ctx, roomID)
		return err
	})
	return out, err
}

// ListBookingsByUser retries transient failures
func (s *RetryingBookingStore) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := s.run(ctx, "list_bookings_by_user", func(ctx context.Context) error {
		var err error
		out, err = s.next.ListBookingsByUser(ctx, userID)
		return err
	})
	return out, err
}

// CreateBooking is passed through once
func (s *RetryingBookingStore) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	return s.next.CreateBooking(ctx, booking)
}

// DeleteBooking retries transient failures. Not-found is returned as is.
func (s *RetryingBookingStore) DeleteBooking(ctx context.Context, bookingID string) error {
	return s.run(ctx, "delete_booking", func(ctx context.Context) error {
		return s.next.DeleteBooking(ctx, bookingID)
	})
}
