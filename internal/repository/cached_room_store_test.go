package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

type fakeRoomCache struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	readErr error
}

func newFakeRoomCache() *fakeRoomCache {
	return &fakeRoomCache{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRoomCache) Get(ctx context.Context, key string) *goredis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return goredis.NewStringResult("", f.readErr)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRoomCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

type countingRoomStore struct {
	RoomStore
	lists int
	gets  int
}

func (c *countingRoomStore) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	c.lists++
	return c.RoomStore.ListRooms(ctx)
}

func (c *countingRoomStore) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	c.gets++
	return c.RoomStore.GetRoom(ctx, id)
}

func TestCachedRoomStore_ListRooms(t *testing.T) {
	next := &countingRoomStore{RoomStore: NewMemoryRoomStore(
		&domain.Room{ID: "1", Name: "Standard", Price: 80},
		&domain.Room{ID: "2", Name: "Deluxe", Price: 150},
	)}
	cache := newFakeRoomCache()
	store := NewCachedRoomStore(next, cache, time.Minute, nil)
	ctx := context.Background()

	first, err := store.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := store.ListRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.lists)
	assert.Equal(t, time.Minute, cache.ttls[roomListKey])
}

func TestCachedRoomStore_GetRoom(t *testing.T) {
	next := &countingRoomStore{RoomStore: NewMemoryRoomStore(&domain.Room{ID: "1", Name: "Standard"})}
	store := NewCachedRoomStore(next, newFakeRoomCache(), 0, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		room, err := store.GetRoom(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Standard", room.Name)
	}
	assert.Equal(t, 1, next.gets)

	_, err := store.GetRoom(ctx, "9")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	_, err = store.GetRoom(ctx, "9")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	assert.Equal(t, 3, next.gets, "misses are not cached")
}

func TestCachedRoomStore_CacheDownFallsThrough(t *testing.T) {
	next := &countingRoomStore{RoomStore: NewMemoryRoomStore(&domain.Room{ID: "1"})}
	cache := newFakeRoomCache()
	cache.readErr = errors.New("connection refused")
	store := NewCachedRoomStore(next, cache, time.Minute, nil)

	_, err := store.GetRoom(context.Background(), "1")
	require.NoError(t, err)
	_, err = store.GetRoom(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 2, next.gets)
}

func TestCachedRoomStore_CorruptEntry(t *testing.T) {
	next := &countingRoomStore{RoomStore: NewMemoryRoomStore(&domain.Room{ID: "1", Name: "Standard"})}
	cache := newFakeRoomCache()
	cache.data[roomDetailKeyPrefix+"1"] = "{not json"
	store := NewCachedRoomStore(next, cache, time.Minute, nil)

	room, err := store.GetRoom(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Standard", room.Name)
	assert.Equal(t, 1, next.gets)
}
