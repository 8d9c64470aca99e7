package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

// MemoryUserStore keeps accounts in process memory
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string // lower-cased email -> id
}

// NewMemoryUserStore creates an empty store
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

// Create stores a copy of user
func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := s.byEmail[email]; taken {
		return domain.ErrUserAlreadyExists
	}
	if _, taken := s.byID[user.ID]; taken {
		return domain.ErrUserAlreadyExists
	}

	u := *user
	s.byID[u.ID] = &u
	s.byEmail[email] = u.ID
	return nil
}

// GetByEmail looks a user up case-insensitively
func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *s.byID[id]
	return &u, nil
}

// GetByID returns a user by id
func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}
