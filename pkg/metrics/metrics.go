package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Phase transition outcomes: advanced, rejected, fault.
	TransitionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "phase_transition_count",
			Help: "Total number of phase transition attempts",
		},
		[]string{"outcome"},
	)

	// Cascade deletion duration (seconds).
	CascadeDeleteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cascade_delete_duration_seconds",
			Help:    "Project cascade deletion duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)

	// Database query duration (seconds).
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	// HTTP request duration (seconds).
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// RecordTransition increments the transition counter for an outcome.
func RecordTransition(outcome string) {
	TransitionCount.WithLabelValues(outcome).Inc()
}

// RecordCascadeDelete records the duration of a cascade delete.
func RecordCascadeDelete(duration time.Duration) {
	CascadeDeleteDuration.Observe(duration.Seconds())
}

// RecordDBQueryDuration records the duration of a database query.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records the duration of an HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
