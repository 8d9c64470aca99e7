package service

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/internal/dto"
	"github.com/mohand-ashraf/velora-hotel/internal/repository"
	"github.com/mohand-ashraf/velora-hotel/pkg/telemetry"
)

// RoomService defines the interface for browsing the room catalog
type RoomService interface {
	// ListRooms filters, sorts and pages the catalog
	ListRooms(ctx context.Context, query domain.RoomQuery) (*dto.RoomPage, error)
	// GetRoom returns one room
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
}

type roomService struct {
	rooms    repository.RoomStore
	pageSize int
}

// NewRoomService creates a new RoomService
func NewRoomService(rooms repository.RoomStore, pageSize int) RoomService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &roomService{rooms: rooms, pageSize: pageSize}
}

func (s *roomService) ListRooms(ctx context.Context, query domain.RoomQuery) (*dto.RoomPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.list")
	defer span.End()

	if err := query.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	all, err := s.rooms.ListRooms(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.NewStoreError("list_rooms", err)
	}

	matched := make([]*domain.Room, 0, len(all))
	for _, r := range all {
		if query.Matches(r) {
			matched = append(matched, r)
		}
	}

	switch query.Sort {
	case domain.SortPriceAsc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	span.SetAttributes(attribute.Int("total", len(matched)))
	span.SetStatus(codes.Ok, "")
	return &dto.RoomPage{
		Rooms:    paginate(matched, page, pageSize),
		Page:     page,
		PageSize: pageSize,
		Total:    len(matched),
	}, nil
}

func (s *roomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.get")
	defer span.End()

	span.SetAttributes(attribute.String("room_id", id))

	if id == "" {
		span.SetStatus(codes.Error, "invalid room_id")
		return nil, domain.ErrInvalidRoomID
	}

	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if domain.IsNotFoundError(err) {
			return nil, err
		}
		return nil, domain.NewStoreError("get_room", err)
	}

	span.SetStatus(codes.Ok, "")
	return room, nil
}
