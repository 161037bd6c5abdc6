package metric

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/c360/fetchlab/errors"
)

// Registrar defines the interface for registering gateway-specific metrics
type Registrar interface {
	RegisterCounterVec(owner, name string, vec *prometheus.CounterVec) error
	RegisterGaugeVec(owner, name string, vec *prometheus.GaugeVec) error
	RegisterHistogramVec(owner, name string, vec *prometheus.HistogramVec) error
	Unregister(owner, name string) bool
}

// Registry manages the registration and lifecycle of metrics
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registered         map[string]prometheus.Collector
	mu                 sync.RWMutex
}

// NewRegistry creates a new metrics registry with the core comparison metrics
// plus Go runtime and process collectors.
func NewRegistry() *Registry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &Registry{
		prometheusRegistry: prometheusRegistry,
		registered:         make(map[string]prometheus.Collector),
	}

	registry.Metrics = NewMetrics()
	registry.registerCore()

	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core comparison metrics
func (r *Registry) CoreMetrics() *Metrics {
	return r.Metrics
}

// RegisterCounterVec registers a counter vector metric for an owner
func (r *Registry) RegisterCounterVec(owner, name string, vec *prometheus.CounterVec) error {
	return r.register(owner, name, "RegisterCounterVec", vec)
}

// RegisterGaugeVec registers a gauge vector metric for an owner
func (r *Registry) RegisterGaugeVec(owner, name string, vec *prometheus.GaugeVec) error {
	return r.register(owner, name, "RegisterGaugeVec", vec)
}

// RegisterHistogramVec registers a histogram vector metric for an owner
func (r *Registry) RegisterHistogramVec(owner, name string, vec *prometheus.HistogramVec) error {
	return r.register(owner, name, "RegisterHistogramVec", vec)
}

func (r *Registry) register(owner, name, operation string, collector prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", owner, name)

	if _, exists := r.registered[key]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("metric %s already registered for %s", name, owner),
			"Registry", operation, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "Registry", operation,
				fmt.Sprintf("prometheus conflict for metric %s", name))
		}
		return errors.WrapInternal(err, "Registry", operation,
			"failed to register collector with prometheus")
	}

	r.registered[key] = collector
	return nil
}

// Unregister removes a metric from the registry
func (r *Registry) Unregister(owner, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", owner, name)

	collector, exists := r.registered[key]
	if !exists {
		return false
	}

	success := r.prometheusRegistry.Unregister(collector)
	if success {
		delete(r.registered, key)
	}

	return success
}

// registerCore registers all core comparison metrics
func (r *Registry) registerCore() {
	r.prometheusRegistry.MustRegister(
		r.Metrics.RequestsTotal,
		r.Metrics.FetchCalls,
		r.Metrics.PayloadBytes,
		r.Metrics.RequestDuration,
		r.Metrics.ErrorsTotal,
	)
}
