package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	AnalyticsEvents  = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "analytics_events_total", Help: "Analytics events logged"}, []string{"event_type"})
	TasksEnqueued    = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "tasks_enqueued_total", Help: "Background tasks created"}, []string{"type"})
	TasksCompleted   = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "tasks_completed_total", Help: "Background tasks that completed"}, []string{"type"})
	TasksFailed      = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "tasks_failed_total", Help: "Background tasks that failed"}, []string{"type"})
	TasksInFlight    = prometheus.NewGauge(prometheus.GaugeOpts{Name: "tasks_inflight", Help: "Background tasks currently running"})
	RateLimitRejects = prometheus.NewCounter(prometheus.CounterOpts{Name: "http_rate_limit_rejects_total", Help: "Requests rejected by rate limiter"})
	CacheLookups     = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "generator_cache_lookups_total", Help: "Generator cache lookups by outcome"}, []string{"kind", "outcome"})
	GenerateSeconds  = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "generator_duration_seconds",
		Help:    "Time spent in media generators",
		Buckets: []float64{0.05, 0.25, 1, 5, 15, 60, 180},
	}, []string{"kind"})
)

// Handler exposes /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			AnalyticsEvents,
			TasksEnqueued,
			TasksCompleted,
			TasksFailed,
			TasksInFlight,
			RateLimitRejects,
			CacheLookups,
			GenerateSeconds,
		)
	})
	return promhttp.Handler()
}
