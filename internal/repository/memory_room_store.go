package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

// MemoryRoomStore keeps the room catalog in process memory
type MemoryRoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

// NewMemoryRoomStore creates a store holding copies of rooms
func NewMemoryRoomStore(rooms ...*domain.Room) *MemoryRoomStore {
	s := &MemoryRoomStore{rooms: make(map[string]*domain.Room)}
	for _, r := range rooms {
		s.rooms[r.ID] = r.Clone()
	}
	return s
}

// ListRooms returns all rooms ordered by id
func (s *MemoryRoomStore) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetRoom returns a copy of the room
func (s *MemoryRoomStore) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return r.Clone(), nil
}

// Put inserts or replaces a room
func (s *MemoryRoomStore) Put(room *domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room.Clone()
}
