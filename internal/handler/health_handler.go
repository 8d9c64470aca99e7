package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 5 * time.Second

// HealthChecker is anything that can report its own health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db    HealthChecker
	redis HealthChecker
	now   func() time.Time
}

// NewHealthHandler creates a new HealthHandler. Pass nil for a component
// that is not configured.
func NewHealthHandler(db, redis HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
		now:   time.Now,
	}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse represents readiness check response
type ReadyResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// Health returns a simple health check (liveness probe)
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.timestamp(),
	})
}

// Ready returns a readiness check (readiness probe)
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	components := map[string]string{
		"database": checkComponent(ctx, h.db),
		"redis":    checkComponent(ctx, h.redis),
	}

	status := http.StatusOK
	overall := "ready"
	for _, state := range components {
		if state != "healthy" && state != "not configured" {
			status = http.StatusServiceUnavailable
			overall = "not ready"
		}
	}

	c.JSON(status, ReadyResponse{
		Status:     overall,
		Timestamp:  h.timestamp(),
		Components: components,
	})
}

func (h *HealthHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}

func checkComponent(ctx context.Context, checker HealthChecker) string {
	if checker == nil {
		return "not configured"
	}
	if err := checker.HealthCheck(ctx); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}
