package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.ObserveRequest("catalogue", "live")
	r.ObserveRequest("catalogue", "live")
	r.ObserveRequest("detail", "static")
	r.ObserveFallback("store_unavailable")
	r.ObserveCache(true)
	r.ObserveCache(false)
	r.ObserveCache(false)
	r.ObserveReport("borrower-list", "live", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requests.WithLabelValues("catalogue", "live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("detail", "static")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks.WithLabelValues("store_unavailable")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheHits.WithLabelValues("miss")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.ObserveFallback("query_failed")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `loan_reports_fallbacks_total{reason="query_failed"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveRequest("catalogue", "live")
		r.ObserveFallback("store_unavailable")
		r.ObserveCache(true)
		r.ObserveReport("x", "live", time.Second)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
