package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/internal/dto"
	"github.com/mohand-ashraf/velora-hotel/internal/service"
	"github.com/mohand-ashraf/velora-hotel/pkg/response"
	"github.com/mohand-ashraf/velora-hotel/pkg/telemetry"
)

// RoomHandler serves the room catalog and per-room availability
type RoomHandler struct {
	roomService    service.RoomService
	bookingService service.BookingService
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(roomService service.RoomService, bookingService service.BookingService) *RoomHandler {
	return &RoomHandler{
		roomService:    roomService,
		bookingService: bookingService,
	}
}

// ListRooms handles GET /rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var query dto.RoomListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		span.SetStatus(codes.Error, "invalid query")
		bindError(c, err)
		return
	}

	page, err := h.roomService.ListRooms(ctx, query.ToDomain())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("total", page.Total))
	span.SetStatus(codes.Ok, "")
	response.Paginated(c, page.Rooms, response.NewMeta(page.Page, page.PageSize, page.Total))
}

// GetRoom handles GET /rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	roomID := c.Param("id")
	span.SetAttributes(attribute.String("room_id", roomID))

	room, err := h.roomService.GetRoom(ctx, roomID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, room)
}

// Availability handles GET /rooms/:id/availability?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *RoomHandler) Availability(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.availability")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	roomID := c.Param("id")
	span.SetAttributes(attribute.String("room_id", roomID))

	from, to := h.bookingService.DefaultWindow()
	if raw := c.Query("from"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			span.SetStatus(codes.Error, "invalid from")
			handleError(c, fmt.Errorf("%w: from: %w", domain.ErrInvalidRange, err))
			return
		}
		from = d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			span.SetStatus(codes.Error, "invalid to")
			handleError(c, fmt.Errorf("%w: to: %w", domain.ErrInvalidRange, err))
			return
		}
		to = d
	}

	result, err := h.bookingService.Availability(ctx, roomID, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("disabled_days", len(result.DisabledDays)))
	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
