package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/pkg/telemetry"
)

const roomColumns = `id, name, type, price, capacity, available, description, amenities, images`

// PostgresRoomStore implements RoomStore using PostgreSQL
type PostgresRoomStore struct {
	pool *pgxpool.Pool
}

// NewPostgresRoomStore creates a new PostgresRoomStore
func NewPostgresRoomStore(pool *pgxpool.Pool) *PostgresRoomStore {
	return &PostgresRoomStore{pool: pool}
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var (
		r        domain.Room
		roomType string
	)
	if err := row.Scan(&r.ID, &r.Name, &roomType, &r.Price, &r.Capacity, &r.Available, &r.Description, &r.Amenities, &r.Images); err != nil {
		return nil, err
	}
	r.Type = domain.RoomType(roomType)
	return &r, nil
}

// ListRooms returns all rooms ordered by id
func (s *PostgresRoomStore) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.list")
	defer span.End()

	rows, err := s.pool.Query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY id`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return rooms, nil
}

// GetRoom retrieves a room by its ID
func (s *PostgresRoomStore) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.get")
	defer span.End()
	span.SetAttributes(attribute.String("room_id", id))

	r, err := scanRoom(s.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrRoomNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return r, nil
}

// Upsert inserts or replaces rooms, used to load a seed catalog
func (s *PostgresRoomStore) Upsert(ctx context.Context, rooms []*domain.Room) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.room.upsert")
	defer span.End()
	span.SetAttributes(attribute.Int("count", len(rooms)))

	batch := &pgx.Batch{}
	for _, r := range rooms {
		amenities := r.Amenities
		if amenities == nil {
			amenities = []string{}
		}
		images := r.Images
		if images == nil {
			images = []string{}
		}
		batch.Queue(`
			INSERT INTO rooms (`+roomColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, type = EXCLUDED.type, price = EXCLUDED.price,
				capacity = EXCLUDED.capacity, available = EXCLUDED.available,
				description = EXCLUDED.description, amenities = EXCLUDED.amenities,
				images = EXCLUDED.images`,
			r.ID, r.Name, string(r.Type), r.Price, r.Capacity, r.Available, r.Description, amenities, images,
		)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to upsert rooms: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
