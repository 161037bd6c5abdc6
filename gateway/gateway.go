// Package gateway holds the transport plumbing shared by the REST and
// GraphQL adapters: request identification, CORS, and traffic accounting.
// Strategy semantics live in fetch/eager and fetch/fieldsel; the gateways
// only translate between wire formats and strategy calls.
package gateway

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// RequestIDHeader carries the request ID on both requests and responses.
const RequestIDHeader = "X-Request-ID"

// Fetch cost headers reported on strategy-resolved responses.
const (
	FetchCallsHeader = "X-Fetch-Calls"
	FetchBytesHeader = "X-Fetch-Bytes"
)

// RequestID extracts the request ID from the incoming headers or generates
// a new one.
func RequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

// CORS returns middleware applying the allowed-origin policy and answering
// preflight requests. An empty origin list allows nothing.
func CORS(origins []string, methods string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			for _, o := range origins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}

			if allowed {
				if origin != "" {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				} else {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				}
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Traffic accumulates per-gateway request and byte counters. All counters
// are safe for concurrent use.
type Traffic struct {
	requestsTotal   atomic.Uint64
	requestsSuccess atomic.Uint64
	requestsFailed  atomic.Uint64
	bytesReceived   atomic.Uint64
	bytesSent       atomic.Uint64

	mu           sync.RWMutex
	lastActivity time.Time
}

// RecordRequest marks the start of a request.
func (t *Traffic) RecordRequest(bodyBytes int) {
	t.requestsTotal.Add(1)
	t.bytesReceived.Add(uint64(bodyBytes))
	t.mu.Lock()
	t.lastActivity = time.Now()
	t.mu.Unlock()
}

// RecordSuccess marks a completed request and its response size.
func (t *Traffic) RecordSuccess(sentBytes int) {
	t.requestsSuccess.Add(1)
	t.bytesSent.Add(uint64(sentBytes))
}

// RecordFailure marks a failed request.
func (t *Traffic) RecordFailure() {
	t.requestsFailed.Add(1)
}

// Snapshot is a point-in-time view of gateway traffic.
type Snapshot struct {
	RequestsTotal   uint64    `json:"requests_total"`
	RequestsSuccess uint64    `json:"requests_success"`
	RequestsFailed  uint64    `json:"requests_failed"`
	BytesReceived   uint64    `json:"bytes_received"`
	BytesSent       uint64    `json:"bytes_sent"`
	LastActivity    time.Time `json:"last_activity"`
}

// NewTrafficGauge builds the gauge vector a gateway exports its traffic
// counters through. Each gateway uses a distinct metric name so both can
// live in one registry.
func NewTrafficGauge(name string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "fetchlab",
			Subsystem: "gateway",
			Name:      name,
			Help:      "Gateway traffic counters by counter name.",
		},
		[]string{"counter"},
	)
}

// Publish writes the current counter values into the gauge vector.
func (t *Traffic) Publish(vec *prometheus.GaugeVec) {
	snap := t.Snapshot()
	vec.WithLabelValues("requests_total").Set(float64(snap.RequestsTotal))
	vec.WithLabelValues("requests_success").Set(float64(snap.RequestsSuccess))
	vec.WithLabelValues("requests_failed").Set(float64(snap.RequestsFailed))
	vec.WithLabelValues("bytes_received").Set(float64(snap.BytesReceived))
	vec.WithLabelValues("bytes_sent").Set(float64(snap.BytesSent))
}

// Snapshot returns the current counter values.
func (t *Traffic) Snapshot() Snapshot {
	t.mu.RLock()
	last := t.lastActivity
	t.mu.RUnlock()

	return Snapshot{
		RequestsTotal:   t.requestsTotal.Load(),
		RequestsSuccess: t.requestsSuccess.Load(),
		RequestsFailed:  t.requestsFailed.Load(),
		BytesReceived:   t.bytesReceived.Load(),
		BytesSent:       t.bytesSent.Load(),
		LastActivity:    last,
	}
}
