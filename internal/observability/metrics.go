package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildapply_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "guildapply_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ApplicationsSubmitted counts accepted submissions by application type.
	ApplicationsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildapply_applications_submitted_total",
		Help: "Total number of applications submitted",
	}, []string{"type"})

	// ApplicationsReviewed counts review decisions by resulting status.
	ApplicationsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildapply_applications_reviewed_total",
		Help: "Total number of applications reviewed",
	}, []string{"status"})

	// NotificationsSent counts outbound notifications by kind and outcome.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildapply_notifications_total",
		Help: "Total number of review notifications attempted",
	}, []string{"kind", "outcome"})

	// AuthorizationDenied counts requests rejected for lacking a required tier.
	AuthorizationDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guildapply_authorization_denied_total",
		Help: "Total number of requests denied by required tier",
	}, []string{"tier"})
)

// DatabaseMetrics records query latency for one table.
type DatabaseMetrics struct {
	table string
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(table string) *DatabaseMetrics {
	return &DatabaseMetrics{table: table}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, m.table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}
