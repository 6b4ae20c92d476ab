package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ledger-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Ledger operation metrics
	LedgerOperationsCounter prometheus.CounterVec

	// Store metrics
	KvOperationDuration        prometheus.HistogramVec
	CorruptionRecoveredCounter prometheus.CounterVec

	// Dashboard metrics, refreshed by the summary view on every change signal
	TurnoverGauge      prometheus.Gauge
	TotalProfitGauge   prometheus.Gauge
	CustomerCountGauge prometheus.Gauge

	// initialized guards the record helpers so callers are safe to use
	// before InitMetrics ran (unit tests exercise the packages directly)
	initialized bool
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Ledger operation metrics
	LedgerOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_operations_total",
			Help: "Total number of ledger operations",
		},
		[]string{"collection", "operation"},
	)

	// Key-value store operation metrics
	KvOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_kv_operation_duration_seconds",
			Help:    "Duration of key-value store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CorruptionRecoveredCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_corruption_recovered_total",
			Help: "Total number of corrupt or unreadable collection blobs replaced by an empty collection",
		},
		[]string{"collection"},
	)

	// Dashboard metrics
	TurnoverGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_turnover_total",
			Help: "Current total turnover across all recorded sales",
		},
	)

	TotalProfitGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_profit_total",
			Help: "Current total profit across all recorded sales",
		},
	)

	CustomerCountGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_customers",
			Help: "Current number of recorded sales",
		},
	)

	initialized = true
}

// TrackKvOperation returns a function that records the duration of a
// key-value store operation
func TrackKvOperation(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if !initialized {
			return
		}
		duration := time.Since(startTime).Seconds()
		KvOperationDuration.WithLabelValues(operation).Observe(duration)
	}
}

// RecordLedgerOperation increments the counter for ledger operations
func RecordLedgerOperation(collection string, operation string) {
	if !initialized {
		return
	}
	LedgerOperationsCounter.WithLabelValues(collection, operation).Inc()
}

// RecordCorruptionRecovered increments the corruption recovery counter
func RecordCorruptionRecovered(collection string) {
	if !initialized {
		return
	}
	CorruptionRecoveredCounter.WithLabelValues(collection).Inc()
}

// UpdateDashboardGauges refreshes the dashboard gauges
func UpdateDashboardGauges(turnover float64, profit float64, customers int) {
	if !initialized {
		return
	}
	TurnoverGauge.Set(turnover)
	TotalProfitGauge.Set(profit)
	CustomerCountGauge.Set(float64(customers))
}
