package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/internal/dto"
	"github.com/mohand-ashraf/velora-hotel/internal/metrics"
	"github.com/mohand-ashraf/velora-hotel/internal/middleware"
	"github.com/mohand-ashraf/velora-hotel/internal/service"
	"github.com/mohand-ashraf/velora-hotel/pkg/response"
	"github.com/mohand-ashraf/velora-hotel/pkg/telemetry"
)

const maxPageSize = 100

// BookingHandler handles booking commit, listing and cancellation
type BookingHandler struct {
	committer      service.Committer
	bookingService service.BookingService
	guard          service.CommitGuard
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	committer service.Committer,
	bookingService service.BookingService,
	guard service.CommitGuard,
) *BookingHandler {
	return &BookingHandler{
		committer:      committer,
		bookingService: bookingService,
		guard:          guard,
	}
}

// CommitBooking handles POST /rooms/:id/bookings
func (h *BookingHandler) CommitBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.commit")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	roomID := c.Param("id")
	session := middleware.GetSession(c)
	span.SetAttributes(attribute.String("room_id", roomID))

	var req dto.CommitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		bindError(c, err)
		return
	}

	rng, err := req.Range()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	// Cheap rejections happen before the guard is touched.
	if !session.IsAuthenticated() {
		span.SetStatus(codes.Error, "unauthenticated")
		handleError(c, domain.ErrUnauthenticated)
		return
	}
	if !rng.IsValid() {
		span.SetStatus(codes.Error, "invalid range")
		handleError(c, domain.ErrInvalidRange)
		return
	}

	release, err := h.guard.TryAcquire(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrCommitInProgress) {
			metrics.RecordGuardBusy(ctx, roomID)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}
	defer release()

	booking, err := h.committer.Commit(ctx, session, roomID, rng)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("booking_id", booking.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, dto.BookingFromDomain(booking))
}

// ListBookings handles GET /bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	page := 1
	pageSize := h.bookingService.PageSize()
	if p := c.Query("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if n, err := strconv.Atoi(ps); err == nil && n > 0 && n <= maxPageSize {
			pageSize = n
		}
	}

	span.SetAttributes(
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	)

	bookings, total, err := h.bookingService.ActiveBookings(ctx, middleware.GetSession(c), page, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Paginated(c, dto.BookingsFromDomain(bookings), response.NewMeta(page, pageSize, total))
}

// CancelBooking handles DELETE /bookings/:id
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	bookingID := c.Param("id")
	span.SetAttributes(attribute.String("booking_id", bookingID))

	booking, err := h.bookingService.OwnedBooking(ctx, middleware.GetSession(c), bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	if err := h.committer.Cancel(ctx, booking.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.CancelBookingResponse{
		BookingID: booking.ID,
		Message:   "Booking cancelled",
	})
}
