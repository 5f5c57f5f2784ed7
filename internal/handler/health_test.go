package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-reports/internal/repository/repotest"
)

func readyStatus(t *testing.T, h *HealthHandler) HealthStatus {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data HealthStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil, nil, 0).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReady_NothingConfigured(t *testing.T) {
	status := readyStatus(t, NewHealthHandler(nil, nil, time.Second))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "not configured", status.Checks["database"])
	assert.Equal(t, "not configured", status.Checks["redis"])
}

func TestReady_DatabaseUp(t *testing.T) {
	status := readyStatus(t, NewHealthHandler(repotest.Open(t), nil, time.Second))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "ok", status.Checks["database"])
}

func TestReady_Degraded(t *testing.T) {
	db := repotest.Open(t)
	require.NoError(t, db.Close())

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { client.Close() })

	status := readyStatus(t, NewHealthHandler(db, client, time.Second))
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "failed: serving sample data", status.Checks["database"])
	assert.Equal(t, "failed: cache disabled", status.Checks["redis"])
}
