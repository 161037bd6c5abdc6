package metric

import (
	"time"

	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch"
)

// Strategy label values shared by the gateways and the comparison tool.
const (
	StrategyEager    = "eager"
	StrategyFieldSel = "fieldsel"
)

// Observation is one resolved request with its measured cost.
type Observation struct {
	Strategy  string
	Operation string
	Status    string
	Calls     int
	Bytes     int
	Duration  time.Duration
}

// Report records a single observation across all comparison metrics.
func (m *Metrics) Report(obs Observation) {
	m.RecordRequest(obs.Strategy, obs.Operation, obs.Status)
	m.RecordDuration(obs.Strategy, obs.Operation, obs.Duration)
	if obs.Status == "ok" {
		m.RecordFetchCalls(obs.Strategy, obs.Operation, obs.Calls)
		m.RecordPayloadBytes(obs.Strategy, obs.Operation, obs.Bytes)
	} else {
		m.RecordError(obs.Strategy, obs.Status)
	}
}

// statusOf maps a strategy error to the status label.
func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.IsNotFound(err):
		return "not_found"
	case errors.IsInvalid(err):
		return "invalid"
	default:
		return "internal"
	}
}

// Instrument runs one strategy operation and reports its cost. The wrapped
// function's result passes through untouched; a nil Metrics receiver makes
// instrumentation a no-op so callers need no conditional wiring.
func Instrument[T any](m *Metrics, strategy, operation string, fn func() (T, fetch.Stats, error)) (T, fetch.Stats, error) {
	start := time.Now()
	result, stats, err := fn()
	if m == nil {
		return result, stats, err
	}

	m.Report(Observation{
		Strategy:  strategy,
		Operation: operation,
		Status:    statusOf(err),
		Calls:     stats.Calls,
		Bytes:     stats.Bytes,
		Duration:  time.Since(start),
	})
	return result, stats, err
}
