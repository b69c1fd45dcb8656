package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"escalas/internal/caching"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// JobStatusProvider exposes the background job registry to the metrics
// endpoint.
type JobStatusProvider interface {
	GetJobStatus() map[string]interface{}
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db       *pgxpool.Pool
	redisSvc caching.CacheService
	jobs     JobStatusProvider
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db *pgxpool.Pool, redisSvc caching.CacheService, jobs JobStatusProvider) *HealthHandlers {
	return &HealthHandlers{
		db:       db,
		redisSvc: redisSvc,
		jobs:     jobs,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
}

// HealthCheck performs comprehensive health checks
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   "1.0.0",
	}

	// Check database connectivity
	if err := h.checkDatabase(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	// Check Redis connectivity
	if err := h.checkRedis(ctx); err != nil {
		health.Services["redis"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["redis"] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}

	return c.JSON(statusCode, health)
}

// checkDatabase verifies database connectivity
func (h *HealthHandlers) checkDatabase(ctx context.Context) error {
	_, err := h.db.Exec(ctx, "SELECT 1")
	return err
}

// checkRedis verifies Redis connectivity. A cache miss is fine; only a
// transport error counts as unhealthy.
func (h *HealthHandlers) checkRedis(ctx context.Context) error {
	_, err := h.redisSvc.GetString(ctx, "healthcheck")
	return err
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.checkDatabase(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Critical services unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// MetricsResponse represents application metrics
type MetricsResponse struct {
	Timestamp  time.Time              `json:"timestamp"`
	Metrics    map[string]interface{} `json:"metrics"`
	Version    string                 `json:"version"`
	Goroutines int                    `json:"goroutines"`
}

// GetMetrics provides application performance metrics
func (h *HealthHandlers) GetMetrics(c echo.Context) error {
	stat := h.db.Stat()
	metrics := &MetricsResponse{
		Timestamp:  time.Now().UTC(),
		Version:    "1.0.0",
		Goroutines: runtime.NumGoroutine(),
		Metrics: map[string]interface{}{
			"database_connections": map[string]interface{}{
				"max":      h.db.Config().MaxConns,
				"total":    stat.TotalConns(),
				"idle":     stat.IdleConns(),
				"acquired": stat.AcquiredConns(),
			},
		},
	}
	if h.jobs != nil {
		metrics.Metrics["background_jobs"] = h.jobs.GetJobStatus()
	}

	return c.JSON(http.StatusOK, metrics)
}
