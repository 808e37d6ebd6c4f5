package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cheapbite_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cheapbite_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cheapbite_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cheapbite_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// NotificationFanout counts notifications created by type.
	NotificationFanout = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cheapbite_notification_fanout_total",
		Help: "Total number of notifications created by type",
	}, []string{"type"})

	// StoreWriteFailures counts background store write failures by collection path.
	StoreWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cheapbite_store_write_failures_total",
		Help: "Total number of store write failures by path and operation",
	}, []string{"path", "operation"})

	// GenerationLatency records latency of content generation calls by kind.
	GenerationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cheapbite_generation_latency_seconds",
		Help:    "Content generation latency in seconds by generator kind",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"kind"})

	// GenerationFailures counts failed content generation calls by kind.
	GenerationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cheapbite_generation_failures_total",
		Help: "Total number of failed content generation calls by kind",
	}, []string{"kind"})

	// MediaUploadBytes records uploaded media sizes.
	MediaUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cheapbite_media_upload_bytes",
		Help:    "Size of uploaded media objects in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
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

// ObserveGeneration records latency for one content generation call and
// increments the failure counter when err is non-nil.
func ObserveGeneration(kind string, start time.Time, err error) {
	GenerationLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		GenerationFailures.WithLabelValues(kind).Inc()
	}
}
