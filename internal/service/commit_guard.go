package service

import (
	"context"
	_ "embed"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/pkg/logger"
)

//go:embed scripts/release_guard.lua
var releaseGuardScript string

const (
	scriptReleaseGuard = "release_guard"
	guardKeyPrefix     = "booking:guard:"

	defaultGuardTTL     = 30 * time.Second
	guardReleaseTimeout = 2 * time.Second
)

// CommitGuard admits one commit attempt per room at a time
type CommitGuard interface {
	// TryAcquire claims roomID or returns domain.ErrCommitInProgress.
	// release must be called exactly once when the attempt ends.
	TryAcquire(ctx context.Context, roomID string) (release func(), err error)
}

// LocalCommitGuard guards rooms within one process
type LocalCommitGuard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// NewLocalCommitGuard creates a new LocalCommitGuard
func NewLocalCommitGuard() *LocalCommitGuard {
	return &LocalCommitGuard{busy: make(map[string]struct{})}
}

// TryAcquire never blocks
func (g *LocalCommitGuard) TryAcquire(ctx context.Context, roomID string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.busy[roomID]; held {
		return nil, domain.ErrCommitInProgress
	}
	g.busy[roomID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, roomID)
			g.mu.Unlock()
		})
	}, nil
}

// GuardClient is the subset of pkg/redis.Client the redis guard needs
type GuardClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
	EvalWithFallback(ctx context.Context, name, script string, keys []string, args ...interface{}) *goredis.Cmd
}

// RedisCommitGuard guards rooms across instances sharing one Redis.
// The TTL bounds how long a crashed holder blocks a room.
type RedisCommitGuard struct {
	client GuardClient
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisCommitGuard creates a new RedisCommitGuard
func NewRedisCommitGuard(client GuardClient, ttl time.Duration, log *logger.Logger) *RedisCommitGuard {
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisCommitGuard{client: client, ttl: ttl, log: log}
}

// TryAcquire sets the room key with a random owner token
func (g *RedisCommitGuard) TryAcquire(ctx context.Context, roomID string) (func(), error) {
	key := guardKeyPrefix + roomID
	token := uuid.New().String()

	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, domain.NewStoreError("acquire_guard", err)
	}
	if !ok {
		return nil, domain.ErrCommitInProgress
	}

	var once sync.Once
	return func() {
		once.Do(func() { g.release(ctx, key, token) })
	}, nil
}

// ScriptLoader preloads a Lua script so the first release skips EVAL
type ScriptLoader interface {
	LoadScript(ctx context.Context, name, script string) (string, error)
}

// LoadScripts registers the release script with Redis
func (g *RedisCommitGuard) LoadScripts(ctx context.Context, loader ScriptLoader) error {
	_, err := loader.LoadScript(ctx, scriptReleaseGuard, releaseGuardScript)
	return err
}

func (g *RedisCommitGuard) release(ctx context.Context, key, token string) {
	// the caller may already be gone, the key must still be freed
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), guardReleaseTimeout)
	defer cancel()

	n, err := g.client.EvalWithFallback(ctx, scriptReleaseGuard, releaseGuardScript, []string{key}, token).Int64()
	if err != nil {
		g.log.Warn("failed to release commit guard", zap.String("key", key), zap.Error(err))
		return
	}
	if n == 0 {
		g.log.Warn("commit guard expired before release", zap.String("key", key), zap.Duration("ttl", g.ttl))
	}
}
