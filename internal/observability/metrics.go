package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paceup_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paceup_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PaymentTransitions counts payment session state transitions.
	PaymentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paceup_payment_transitions_total",
		Help: "Total payment session transitions by resulting status",
	}, []string{"status"})

	// ModerationTransitions counts admin approve/reject decisions by entity kind.
	ModerationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paceup_moderation_transitions_total",
		Help: "Total moderation transitions by entity and resulting status",
	}, []string{"entity", "status"})

	// NotificationsPublished counts notification rows written, by type.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paceup_notifications_published_total",
		Help: "Total notifications written, by notification type",
	}, []string{"type"})

	// DocumentsAnalyzed counts document analysis requests by outcome.
	DocumentsAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paceup_documents_analyzed_total",
		Help: "Total analyzed documents by outcome (ok, partial, failed)",
	}, []string{"outcome"})

	// EmailsSent counts outbound SMTP deliveries by kind and outcome.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paceup_emails_sent_total",
		Help: "Total outbound emails by kind and outcome",
	}, []string{"kind", "outcome"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
