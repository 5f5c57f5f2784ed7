// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loan_reports"

// Recorder owns a private registry so tests and multiple servers in one
// process never collide. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Report responses served, by view and data source.",
		}, []string{"view", "source"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Responses served from the static dataset, by reason.",
		}, []string{"reason"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Report cache lookups, by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent computing one report.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"report", "source"}),
	}
	r.registry.MustRegister(
		r.requests,
		r.fallbacks,
		r.cacheHits,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) ObserveRequest(view, source string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(view, source).Inc()
}

func (r *Recorder) ObserveFallback(reason string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(reason).Inc()
}

func (r *Recorder) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheHits.WithLabelValues(result).Inc()
}

func (r *Recorder) ObserveReport(reportID, source string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(reportID, source).Observe(elapsed.Seconds())
}
