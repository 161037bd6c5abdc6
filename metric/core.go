package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the fetch-comparison metrics shared by both strategies.
// The strategy label ("eager" or "fieldsel") is what makes the two fetch
// styles comparable on one dashboard.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	FetchCalls      *prometheus.HistogramVec
	PayloadBytes    *prometheus.HistogramVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all comparison metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fetchlab",
				Subsystem: "requests",
				Name:      "total",
				Help:      "Total number of fetch requests",
			},
			[]string{"strategy", "operation", "status"},
		),

		FetchCalls: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fetchlab",
				Subsystem: "fetch",
				Name:      "calls",
				Help:      "Logical store calls issued per request",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
			[]string{"strategy", "operation"},
		),

		PayloadBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fetchlab",
				Subsystem: "fetch",
				Name:      "payload_bytes",
				Help:      "Serialized payload bytes transferred per request",
				Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
			},
			[]string{"strategy", "operation"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fetchlab",
				Subsystem: "requests",
				Name:      "duration_seconds",
				Help:      "Request resolution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"strategy", "operation"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fetchlab",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of request errors",
			},
			[]string{"strategy", "class"},
		),
	}
}

// RecordRequest increments the request counter
func (m *Metrics) RecordRequest(strategy, operation, status string) {
	m.RequestsTotal.WithLabelValues(strategy, operation, status).Inc()
}

// RecordFetchCalls records the call count of one resolved request
func (m *Metrics) RecordFetchCalls(strategy, operation string, calls int) {
	m.FetchCalls.WithLabelValues(strategy, operation).Observe(float64(calls))
}

// RecordPayloadBytes records the payload size of one resolved request
func (m *Metrics) RecordPayloadBytes(strategy, operation string, bytes int) {
	m.PayloadBytes.WithLabelValues(strategy, operation).Observe(float64(bytes))
}

// RecordDuration records how long a request took to resolve
func (m *Metrics) RecordDuration(strategy, operation string, d time.Duration) {
	m.RequestDuration.WithLabelValues(strategy, operation).Observe(d.Seconds())
}

// RecordError increments the error counter
func (m *Metrics) RecordError(strategy, class string) {
	m.ErrorsTotal.WithLabelValues(strategy, class).Inc()
}
