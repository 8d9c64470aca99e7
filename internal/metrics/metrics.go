package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mohand-ashraf/velora-hotel/pkg/telemetry"
)

// Rejection reasons used on bookings_rejected_total
const (
	ReasonUnauthenticated  = "unauthenticated"
	ReasonInvalidRoom      = "invalid_room"
	ReasonInvalidRange     = "invalid_range"
	ReasonDateConflict     = "date_conflict"
	ReasonCommitInProgress = "commit_in_progress"
	ReasonStoreError       = "store_error"
)

var (
	// Booking counters
	BookingsCommitted *telemetry.Counter
	BookingsRejected  *telemetry.Counter
	BookingsCancelled *telemetry.Counter
	StoreErrors       *telemetry.Counter

	// Histograms
	CommitDuration *telemetry.Histogram

	// Gauges
	CommitsInFlight *telemetry.UpDownCounter

	initOnce sync.Once
	initErr  error
)

// Init initializes all booking metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	BookingsCommitted, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_committed_total",
		Description: "Total number of bookings written to the store",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsRejected, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_rejected_total",
		Description: "Total number of rejected commit attempts by reason",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsCancelled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "bookings_cancelled_total",
		Description: "Total number of cancelled bookings",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	StoreErrors, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_store_errors_total",
		Description: "Total number of failed booking store calls",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	CommitDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "booking_commit_duration_ms",
		Description: "Duration of a commit attempt",
		Unit:        "ms",
	}, []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}) // 1ms to 5s
	if err != nil {
		return err
	}

	CommitsInFlight, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "booking_commits_in_flight",
		Description: "Commit attempts currently running",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	return nil
}

// RecordCommitStart marks an attempt as running
func RecordCommitStart(ctx context.Context) {
	if CommitsInFlight != nil {
		CommitsInFlight.Inc(ctx)
	}
}

// RecordCommitted records a successful commit
func RecordCommitted(ctx context.Context, roomID string, durationMs float64) {
	if BookingsCommitted != nil {
		BookingsCommitted.Inc(ctx, attribute.String("room_id", roomID))
	}
	recordCommitEnd(ctx, "committed", durationMs)
}

// RecordRejected records a rejected commit attempt
func RecordRejected(ctx context.Context, roomID, reason string, durationMs float64) {
	if BookingsRejected != nil {
		BookingsRejected.Inc(ctx,
			attribute.String("room_id", roomID),
			attribute.String("reason", reason),
		)
	}
	recordCommitEnd(ctx, "rejected", durationMs)
}

func recordCommitEnd(ctx context.Context, outcome string, durationMs float64) {
	if CommitDuration != nil {
		CommitDuration.Record(ctx, durationMs, attribute.String("outcome", outcome))
	}
	if CommitsInFlight != nil {
		CommitsInFlight.Dec(ctx)
	}
}

// RecordGuardBusy records a commit turned away by the commit guard
func RecordGuardBusy(ctx context.Context, roomID string) {
	if BookingsRejected != nil {
		BookingsRejected.Inc(ctx,
			attribute.String("room_id", roomID),
			attribute.String("reason", ReasonCommitInProgress),
		)
	}
}

// RecordCancellation records a cancelled booking
func RecordCancellation(ctx context.Context, roomID string) {
	if BookingsCancelled != nil {
		BookingsCancelled.Inc(ctx, attribute.String("room_id", roomID))
	}
}

// RecordStoreError records a failed store call
func RecordStoreError(ctx context.Context, op string) {
	if StoreErrors != nil {
		StoreErrors.Inc(ctx, attribute.String("op", op))
	}
}
