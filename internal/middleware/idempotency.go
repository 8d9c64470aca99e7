package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mohand-ashraf/velora-hotel/pkg/logger"
	"github.com/mohand-ashraf/velora-hotel/pkg/response"
)

const (
	// IdempotencyKeyHeader lets a client retry a commit or cancel safely
	IdempotencyKeyHeader = "X-Idempotency-Key"

	idempotencyKeyPrefix   = "idempotency:"
	defaultIdempotencyTTL  = 10 * time.Minute
	defaultProcessingTTL   = 30 * time.Second
	idempotencySaveTimeout = 2 * time.Second
)

type idempotencyStatus string

const (
	statusProcessing idempotencyStatus = "processing"
	statusCompleted  idempotencyStatus = "completed"
)

// idempotencyRecord is what Redis holds under one client key
type idempotencyRecord struct {
	Status       idempotencyStatus `json:"status"`
	RequestHash  string            `json:"request_hash"`
	ResponseCode int               `json:"response_code,omitempty"`
	ResponseBody string            `json:"response_body,omitempty"`
}

// IdempotencyStore is the subset of pkg/redis.Client the middleware needs
type IdempotencyStore interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store IdempotencyStore
	// TTL of a completed record
	TTL time.Duration
	// ProcessingTTL bounds how long a crashed request blocks its key
	ProcessingTTL time.Duration
	Logger        *logger.Logger
}

// Idempotency replays the stored response when a client repeats a write
// with the same X-Idempotency-Key. Requests without the header pass
// through. Keys are scoped per user and bound to method, path and body.
// 5xx responses are not stored so the client can retry them.
// Any Redis failure lets the request through.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	if config.TTL <= 0 {
		config.TTL = defaultIdempotencyTTL
	}
	if config.ProcessingTTL <= 0 {
		config.ProcessingTTL = defaultProcessingTTL
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || config.Store == nil {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		userID := c.GetString(UserIDKey)
		redisKey := idempotencyKeyPrefix + userID + ":" + key
		hash := requestHash(c.Request.Method, c.Request.URL.Path, userID, body)
		ctx := c.Request.Context()
		log := config.Logger.With(zap.String("idempotency_key", key))

		existing, err := loadRecord(ctx, config.Store, redisKey)
		if err != nil && !errors.Is(err, goredis.Nil) {
			log.Warn("idempotency lookup failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if existing != nil {
			replay(c, existing, hash)
			return
		}

		claimed, err := storeRecord(ctx, config.Store, redisKey, &idempotencyRecord{
			Status:      statusProcessing,
			RequestHash: hash,
		}, config.ProcessingTTL, true)
		if err != nil {
			log.Warn("idempotency claim failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			// lost the race to a concurrent duplicate
			if existing, _ = loadRecord(ctx, config.Store, redisKey); existing != nil {
				replay(c, existing, hash)
				return
			}
		}

		rw := &capturingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rw

		c.Next()

		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), idempotencySaveTimeout)
		defer cancel()

		if rw.Status() >= http.StatusInternalServerError {
			if err := config.Store.Del(saveCtx, redisKey).Err(); err != nil {
				log.Warn("failed to drop idempotency record", zap.Error(err))
			}
			return
		}
		if _, err := storeRecord(saveCtx, config.Store, redisKey, &idempotencyRecord{
			Status:       statusCompleted,
			RequestHash:  hash,
			ResponseCode: rw.Status(),
			ResponseBody: rw.body.String(),
		}, config.TTL, false); err != nil {
			log.Warn("failed to save idempotency record", zap.Error(err))
		}
	}
}

func replay(c *gin.Context, record *idempotencyRecord, hash string) {
	switch {
	case record.RequestHash != hash:
		response.Error(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED",
			"Idempotency key already used with a different request", "")
	case record.Status == statusProcessing:
		response.Conflict(c, "REQUEST_IN_PROGRESS", "A request with this idempotency key is already being processed")
	default:
		c.Data(record.ResponseCode, "application/json; charset=utf-8", []byte(record.ResponseBody))
		c.Abort()
	}
}

func requestHash(method, path, userID string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write([]byte(userID))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func loadRecord(ctx context.Context, store IdempotencyStore, key string) (*idempotencyRecord, error) {
	raw, err := store.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func storeRecord(ctx context.Context, store IdempotencyStore, key string, record *idempotencyRecord, ttl time.Duration, onlyIfAbsent bool) (bool, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return false, err
	}
	if onlyIfAbsent {
		return store.SetNX(ctx, key, string(data), ttl).Result()
	}
	return true, store.Set(ctx, key, string(data), ttl).Err()
}

// capturingWriter tees the response body so it can be replayed
type capturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
