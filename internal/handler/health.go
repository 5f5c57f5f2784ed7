package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/loan-reports/pkg/response"
)

type HealthHandler struct {
	db      *sqlx.DB
	redis   *redis.Client
	timeout time.Duration
}

// NewHealthHandler accepts a nil db or redis client for deployments that run
// without them.
func NewHealthHandler(db *sqlx.DB, redis *redis.Client, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthHandler{
		db:      db,
		redis:   redis,
		timeout: timeout,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready checks database and redis connectivity. Neither is required to serve
// reports, so a failed dependency marks the service degraded, not unready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	switch {
	case h.db == nil:
		status.Checks["database"] = "not configured"
	case h.db.PingContext(ctx) != nil:
		status.Status = "degraded"
		status.Checks["database"] = "failed: serving sample data"
	default:
		status.Checks["database"] = "ok"
	}

	switch {
	case h.redis == nil:
		status.Checks["redis"] = "not configured"
	case h.redis.Ping(ctx).Err() != nil:
		status.Status = "degraded"
		status.Checks["redis"] = "failed: cache disabled"
	default:
		status.Checks["redis"] = "ok"
	}

	response.Success(w, status)
}
