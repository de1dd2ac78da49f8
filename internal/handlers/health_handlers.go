package handlers

import (
	"context"
	"net/http"
	"time"

	"socialai/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const healthCheckTimeout = 3 * time.Second

// Pinger is anything the health check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db      Pinger
	redis   Pinger
	storage Pinger
	version string
	started time.Time
}

// NewHealthHandlers creates a new health handlers instance. redis and
// storage may be nil when those backends are not configured.
func NewHealthHandlers(db, redis, storage Pinger, version string) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		redis:   redis,
		storage: storage,
		version: version,
		started: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

func (h *HealthHandlers) check(ctx context.Context, c echo.Context, name string, p Pinger) string {
	if p == nil {
		return "not_configured"
	}
	if err := p.Ping(ctx); err != nil {
		logger.FromContext(c).Warn("health check failed", zap.String("service", name), zap.Error(err))
		return "unhealthy"
	}
	return "healthy"
}

// HealthCheck handles GET /api/health. The database is critical and turns
// the response into a 503; cache and storage only degrade it.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services: map[string]string{
			"database": h.check(ctx, c, "database", h.db),
			"redis":    h.check(ctx, c, "redis", h.redis),
			"storage":  h.check(ctx, c, "storage", h.storage),
		},
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
		Version: h.version,
	}

	if health.Services["database"] != "healthy" {
		health.Status = "unhealthy"
		return c.JSON(http.StatusServiceUnavailable, health)
	}
	if health.Services["redis"] == "unhealthy" || health.Services["storage"] == "unhealthy" {
		health.Status = "degraded"
	}
	return c.JSON(http.StatusOK, health)
}

// LivenessCheck reports that the process is serving requests.
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
