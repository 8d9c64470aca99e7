package repository

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/pkg/logger"
)

const (
	roomDetailKeyPrefix = "room:detail:"
	roomListKey         = "room:list"

	defaultRoomCacheTTL = 5 * time.Minute
)

// RoomCache is the subset of the redis client the room cache needs
type RoomCache interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// CachedRoomStore wraps RoomStore with a Redis read-through cache.
// Concurrent misses for the same key share one store call. Only the room
// catalog is cached, bookings always come from the store.
type CachedRoomStore struct {
	next  RoomStore
	cache RoomCache
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
}

// NewCachedRoomStore creates a new CachedRoomStore
func NewCachedRoomStore(next RoomStore, cache RoomCache, ttl time.Duration, log *logger.Logger) *CachedRoomStore {
	if ttl <= 0 {
		ttl = defaultRoomCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedRoomStore{next: next, cache: cache, ttl: ttl, log: log}
}

// ListRooms returns the catalog, from cache when possible
func (s *CachedRoomStore) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	var rooms []*domain.Room
	if s.lookup(ctx, roomListKey, &rooms) {
		return rooms, nil
	}

	v, err, _ := s.group.Do(roomListKey, func() (interface{}, error) {
		rooms, err := s.next.ListRooms(ctx)
		if err != nil {
			return nil, err
		}
		s.store(ctx, roomListKey, rooms)
		return rooms, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRooms(v.([]*domain.Room)), nil
}

// GetRoom returns one room, from cache when possible. Misses are not cached.
func (s *CachedRoomStore) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	key := roomDetailKeyPrefix + id

	var room domain.Room
	if s.lookup(ctx, key, &room) {
		return &room, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		room, err := s.next.GetRoom(ctx, id)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, room)
		return room, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Room).Clone(), nil
}

// lookup reports a hit. Redis errors count as a miss.
func (s *CachedRoomStore) lookup(ctx context.Context, key string, dst interface{}) bool {
	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != goredis.Nil {
			s.log.Warn("room cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		s.log.Warn("room cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *CachedRoomStore) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.log.Warn("room cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func cloneRooms(rooms []*domain.Room) []*domain.Room {
	out := make([]*domain.Room, len(rooms))
	for i, r := range rooms {
		out[i] = r.Clone()
	}
	return out
}
