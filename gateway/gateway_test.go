package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_PassesThroughAndGenerates(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "given-id")
	assert.Equal(t, "given-id", RequestID(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	id := RequestID(r)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}

func TestCORS(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"http://example.com"}, "GET, POST, OPTIONS")(inner)

	t.Run("allowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "http://example.com")
		handler.ServeHTTP(w, r)

		assert.Equal(t, "http://example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("disallowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "http://evil.example")
		handler.ServeHTTP(w, r)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodOptions, "/", nil)
		r.Header.Set("Origin", "http://example.com")
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("wildcard", func(t *testing.T) {
		wild := CORS([]string{"*"}, "GET")(inner)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "http://anywhere.example")
		wild.ServeHTTP(w, r)

		assert.Equal(t, "http://anywhere.example", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestTraffic(t *testing.T) {
	var tr Traffic

	tr.RecordRequest(100)
	tr.RecordSuccess(250)
	tr.RecordRequest(50)
	tr.RecordFailure()

	snap := tr.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.Equal(t, uint64(1), snap.RequestsSuccess)
	assert.Equal(t, uint64(1), snap.RequestsFailed)
	assert.Equal(t, uint64(150), snap.BytesReceived)
	assert.Equal(t, uint64(250), snap.BytesSent)
	assert.False(t, snap.LastActivity.IsZero())
}

func TestTrafficPublish(t *testing.T) {
	var tr Traffic
	vec := NewTrafficGauge("test_traffic")

	tr.RecordRequest(100)
	tr.RecordSuccess(250)
	tr.RecordRequest(50)
	tr.RecordFailure()
	tr.Publish(vec)

	assert.Equal(t, 2.0, testutil.ToFloat64(vec.WithLabelValues("requests_total")))
	assert.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("requests_success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("requests_failed")))
	assert.Equal(t, 150.0, testutil.ToFloat64(vec.WithLabelValues("bytes_received")))
	assert.Equal(t, 250.0, testutil.ToFloat64(vec.WithLabelValues("bytes_sent")))

	// Re-publishing replaces values rather than accumulating.
	tr.RecordRequest(0)
	tr.Publish(vec)
	assert.Equal(t, 3.0, testutil.ToFloat64(vec.WithLabelValues("requests_total")))
}
