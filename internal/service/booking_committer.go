package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/internal/metrics"
	"github.com/mohand-ashraf/velora-hotel/internal/repository"
	"github.com/mohand-ashraf/velora-hotel/pkg/logger"
	"github.com/mohand-ashraf/velora-hotel/pkg/telemetry"
)

// CommitState is the phase of one commit attempt
type CommitState int

const (
	StateIdle CommitState = iota
	StateValidating
	StateCommitting
	StateCommitted
	StateRejected
)

func (s CommitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateCommitting:
		return "committing"
	case StateCommitted:
		return "committed"
	case StateRejected:
		return "rejected"
	}
	return fmt.Sprintf("CommitState(%d)", int(s))
}

var validTransitions = map[CommitState][]CommitState{
	StateIdle:       {StateValidating},
	StateValidating: {StateCommitting, StateRejected},
	StateCommitting: {StateCommitted, StateRejected},
}

// CommitObserver is told about every state change of every attempt.
// err is set only on the transition to StateRejected.
type CommitObserver func(roomID string, from, to CommitState, err error)

// Committer commits and cancels bookings
type Committer interface {
	// Commit books candidate for the session's user
	Commit(ctx context.Context, session *domain.Session, roomID string, candidate domain.DateRange) (*domain.Booking, error)
	// Cancel deletes a booking. An unknown id is not an error.
	Cancel(ctx context.Context, bookingID string) error
	// Refresh fetches a room's bookings and replaces them in the working set
	Refresh(ctx context.Context, roomID string) ([]domain.Booking, error)
}

// DefaultMaxStayNights bounds a stay when BookingCommitterConfig leaves it unset
const DefaultMaxStayNights = 365

// BookingCommitterConfig contains the optional collaborators of the committer
type BookingCommitterConfig struct {
	Observer      CommitObserver
	IDGenerator   func() string
	Clock         func() time.Time
	Logger        *logger.Logger
	MaxStayNights int
}

// BookingCommitter is the only writer of the booking store and the
// working set. It does not serialize attempts, callers hold a CommitGuard.
type BookingCommitter struct {
	store     repository.BookingStore
	working   *WorkingSet
	publisher EventPublisher
	observer  CommitObserver
	maxStay   int
	newID     func() string
	now       func() time.Time
	log       *logger.Logger
}

// NewBookingCommitter creates a new BookingCommitter
func NewBookingCommitter(
	store repository.BookingStore,
	working *WorkingSet,
	publisher EventPublisher,
	cfg *BookingCommitterConfig,
) *BookingCommitter {
	if working == nil {
		working = NewWorkingSet()
	}
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	c := &BookingCommitter{
		store:     store,
		working:   working,
		publisher: publisher,
		maxStay:   DefaultMaxStayNights,
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
		log:       logger.Get(),
	}
	if cfg != nil {
		c.observer = cfg.Observer
		if cfg.IDGenerator != nil {
			c.newID = cfg.IDGenerator
		}
		if cfg.Clock != nil {
			c.now = cfg.Clock
		}
		if cfg.Logger != nil {
			c.log = cfg.Logger
		}
		if cfg.MaxStayNights > 0 {
			c.maxStay = cfg.MaxStayNights
		}
	}
	return c
}

// WorkingSet returns the committer's working set for read access
func (c *BookingCommitter) WorkingSet() *WorkingSet {
	return c.working
}

// attempt tracks the state of one Commit call
type attempt struct {
	roomID   string
	state    CommitState
	observer CommitObserver
}

func (a *attempt) to(next CommitState, err error) {
	allowed := false
	for _, s := range validTransitions[a.state] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		panic(fmt.Sprintf("booking committer: illegal transition %s -> %s", a.state, next))
	}
	prev := a.state
	a.state = next
	if a.observer != nil {
		a.observer(a.roomID, prev, next, err)
	}
}

// Commit runs one attempt: authenticate, validate, fetch fresh bookings,
// check overlap, then write. Nothing is written unless every check passes.
func (c *BookingCommitter) Commit(ctx context.Context, session *domain.Session, roomID string, candidate domain.DateRange) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.commit")
	defer span.End()

	span.SetAttributes(
		attribute.String("room_id", roomID),
		attribute.String("check_in", candidate.Start.String()),
		attribute.String("check_out", candidate.End.String()),
	)

	start := time.Now()
	metrics.RecordCommitStart(ctx)

	a := &attempt{roomID: roomID, state: StateIdle, observer: c.observer}
	a.to(StateValidating, nil)

	reject := func(reason string, err error) (*domain.Booking, error) {
		a.to(StateRejected, err)
		metrics.RecordRejected(ctx, roomID, reason, elapsedMs(start))
		span.SetStatus(codes.Error, reason)
		return nil, err
	}

	if !session.IsAuthenticated() {
		return reject(metrics.ReasonUnauthenticated, domain.ErrUnauthenticated)
	}
	span.SetAttributes(attribute.String("user_id", session.UserID))

	if roomID == "" {
		return reject(metrics.ReasonInvalidRoom, domain.ErrInvalidRoomID)
	}
	if !candidate.IsValid() {
		return reject(metrics.ReasonInvalidRange, domain.ErrInvalidRange)
	}
	if nights := candidate.Nights(); nights > c.maxStay {
		return reject(metrics.ReasonInvalidRange,
			fmt.Errorf("%w: stay of %d nights exceeds the %d night limit", domain.ErrInvalidRange, nights, c.maxStay))
	}

	existing, err := c.Refresh(ctx, roomID)
	if err != nil {
		span.RecordError(err)
		return reject(metrics.ReasonStoreError, err)
	}

	conflict, err := domain.NewAvailabilityIndex(existing).ConflictsWithExisting(candidate)
	if err != nil {
		span.RecordError(err)
		return reject(metrics.ReasonInvalidRange, err)
	}
	if conflict {
		return reject(metrics.ReasonDateConflict, domain.ErrDateConflict)
	}

	a.to(StateCommitting, nil)

	booking := domain.Booking{
		ID:        c.newID(),
		RoomID:    roomID,
		UserID:    session.UserID,
		CheckIn:   candidate.Start,
		CheckOut:  candidate.End,
		CreatedAt: c.now().UTC(),
	}

	// a client hanging up must not abort a write already in flight
	writeCtx := context.WithoutCancel(ctx)
	if err := c.store.CreateBooking(writeCtx, &booking); err != nil {
		span.RecordError(err)
		metrics.RecordStoreError(ctx, "create_booking")
		return reject(metrics.ReasonStoreError, domain.NewStoreError("create_booking", err))
	}

	c.working.Append(booking)
	a.to(StateCommitted, nil)
	metrics.RecordCommitted(ctx, roomID, elapsedMs(start))

	if err := c.publisher.PublishBookingCreated(writeCtx, &booking); err != nil {
		c.log.WithContext(ctx).Warn("failed to publish booking created event",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}

	c.log.WithContext(ctx).Info("booking committed",
		zap.String("booking_id", booking.ID),
		zap.String("room_id", roomID),
		zap.String("user_id", booking.UserID),
		zap.Stringer("range", candidate),
	)

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")

	out := booking
	return &out, nil
}

// Refresh fetches a room's bookings and replaces them in the working set.
// A read failure is a StoreError and leaves the working set unchanged.
func (c *BookingCommitter) Refresh(ctx context.Context, roomID string) ([]domain.Booking, error) {
	existing, err := c.store.ListBookings(ctx, roomID)
	if err != nil {
		metrics.RecordStoreError(ctx, "list_bookings")
		return nil, domain.NewStoreError("list_bookings", err)
	}
	c.working.Replace(roomID, existing)
	return existing, nil
}

// Cancel deletes first and only then updates the working set.
// A not-found answer from the store counts as deleted.
func (c *BookingCommitter) Cancel(ctx context.Context, bookingID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.booking.cancel")
	defer span.End()

	span.SetAttributes(attribute.String("booking_id", bookingID))

	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return domain.ErrInvalidBookingID
	}

	writeCtx := context.WithoutCancel(ctx)
	err := c.store.DeleteBooking(writeCtx, bookingID)
	notFound := errors.Is(err, domain.ErrBookingNotFound)
	if err != nil && !notFound {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordStoreError(ctx, "delete_booking")
		return domain.NewStoreError("delete_booking", err)
	}

	booking, known := c.working.Get(bookingID)
	if !known {
		booking = domain.Booking{ID: bookingID}
	}
	c.working.Remove(bookingID)

	if !notFound {
		metrics.RecordCancellation(ctx, booking.RoomID)
	}

	if err := c.publisher.PublishBookingCancelled(writeCtx, &booking); err != nil {
		c.log.WithContext(ctx).Warn("failed to publish booking cancelled event",
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
	}

	c.log.WithContext(ctx).Info("booking cancelled",
		zap.String("booking_id", bookingID),
		zap.Bool("already_gone", notFound),
	)

	span.SetStatus(codes.Ok, "")
	return nil
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
