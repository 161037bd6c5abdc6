// Package http provides the REST gateway. It exposes the bookstore over
// resource endpoints and resolves composite reads through the eager fetch
// strategy, reporting each request's call and byte cost in response headers.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/c360/fetchlab/config"
	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch/eager"
	"github.com/c360/fetchlab/gateway"
	"github.com/c360/fetchlab/health"
	"github.com/c360/fetchlab/metric"
	"github.com/c360/fetchlab/store"
)

// healthComponent names this gateway in health reports.
const healthComponent = "rest-gateway"

// Gateway serves the REST API backed by the eager fetch strategy.
type Gateway struct {
	cfg     config.HTTPConfig
	store   *store.Store
	eager   *eager.Strategy
	metrics *metric.Metrics
	logger  *slog.Logger
	limiter *rate.Limiter

	traffic      gateway.Traffic
	trafficGauge *prometheus.GaugeVec
	monitor      *health.Monitor
	httpServer   *http.Server

	// Lifecycle
	startedAt time.Time
	running   bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewGateway creates a REST gateway. metrics may be nil to disable
// instrumentation.
func NewGateway(cfg config.HTTPConfig, s *store.Store, metrics *metric.Metrics, logger *slog.Logger) (*Gateway, error) {
	if s == nil {
		return nil, errors.WrapInvalid(fmt.Errorf("store is nil"),
			"Gateway", "NewGateway", "store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Gateway{
		cfg:      cfg,
		store:    s,
		eager:    eager.New(s),
		metrics:  metrics,
		logger:   logger,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		monitor:  health.NewMonitor(),
		stopChan: make(chan struct{}),
	}, nil
}

// Monitor returns the gateway's health monitor.
func (g *Gateway) Monitor() *health.Monitor {
	return g.monitor
}

// RegisterMetrics publishes the gateway's traffic counters through the
// registrar. Must be called before Start; the gauges refresh on every
// request.
func (g *Gateway) RegisterMetrics(reg metric.Registrar) error {
	vec := gateway.NewTrafficGauge("rest_traffic")
	if err := reg.RegisterGaugeVec(healthComponent, "traffic", vec); err != nil {
		return err
	}
	g.trafficGauge = vec
	return nil
}

// Router builds the full route table with middleware applied.
func (g *Gateway) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", g.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", g.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", g.handleStats).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/authors", g.handleListAuthors).Methods(http.MethodGet)
	api.HandleFunc("/authors", g.handleCreateAuthor).Methods(http.MethodPost)
	api.HandleFunc("/authors/{id:[0-9]+}", g.handleGetAuthor).Methods(http.MethodGet)
	api.HandleFunc("/authors/{id:[0-9]+}", g.handleUpdateAuthor).Methods(http.MethodPut)
	api.HandleFunc("/authors/{id:[0-9]+}", g.handleDeleteAuthor).Methods(http.MethodDelete)
	api.HandleFunc("/authors/{id:[0-9]+}/books", g.handleAuthorBooks).Methods(http.MethodGet)

	api.HandleFunc("/books", g.handleListBooks).Methods(http.MethodGet)
	api.HandleFunc("/books", g.handleCreateBook).Methods(http.MethodPost)
	api.HandleFunc("/books/search", g.handleSearchBooks).Methods(http.MethodGet)
	api.HandleFunc("/books/by-genre/{genre}", g.handleBooksByGenre).Methods(http.MethodGet)
	api.HandleFunc("/books/{id:[0-9]+}", g.handleGetBook).Methods(http.MethodGet)
	api.HandleFunc("/books/{id:[0-9]+}", g.handleUpdateBook).Methods(http.MethodPut)
	api.HandleFunc("/books/{id:[0-9]+}", g.handleDeleteBook).Methods(http.MethodDelete)

	api.HandleFunc("/customers", g.handleListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers", g.handleCreateCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id:[0-9]+}", g.handleGetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}", g.handleUpdateCustomer).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id:[0-9]+}", g.handleDeleteCustomer).Methods(http.MethodDelete)
	api.HandleFunc("/customers/{id:[0-9]+}/orders", g.handleCustomerOrders).Methods(http.MethodGet)

	api.HandleFunc("/orders", g.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", g.handleCreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}", g.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}/status", g.handleUpdateOrderStatus).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id:[0-9]+}", g.handleDeleteOrder).Methods(http.MethodDelete)

	var handler http.Handler = r
	handler = g.accountingMiddleware(handler)
	handler = g.rateLimitMiddleware(handler)
	handler = gateway.CORS(g.cfg.CORSOrigins, "GET, POST, PUT, DELETE, OPTIONS")(handler)
	return handler
}

// Setup builds the HTTP server. Must be called before Start.
func (g *Gateway) Setup() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", g.cfg.Host, g.cfg.Port),
		Handler:      g.Router(),
		ReadTimeout:  g.cfg.ReadTimeout,
		WriteTimeout: g.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g.logger.Info("REST gateway configured",
		"address", g.httpServer.Addr,
		"rate_limit", g.cfg.RateLimit)
	return nil
}

// Start runs the HTTP server until the context is cancelled or Stop is
// called. The ready channel is closed when the server begins listening.
func (g *Gateway) Start(ctx context.Context, ready chan<- struct{}) error {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return errors.WrapInvalid(fmt.Errorf("gateway already running"),
			"Gateway", "Start", "start refused")
	}
	if g.httpServer == nil {
		g.mu.Unlock()
		return errors.WrapInternal(fmt.Errorf("Setup not called"),
			"Gateway", "Start", "server not configured")
	}
	g.running = true
	g.startedAt = time.Now()
	server := g.httpServer
	g.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		g.logger.Info("REST gateway starting", "address", server.Addr)

		if ready != nil {
			close(ready)
		}

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			g.logger.Error("REST gateway server error", "error", err)
			select {
			case errChan <- err:
			case <-ctx.Done():
			case <-g.stopChan:
			}
		}
	}()

	select {
	case <-ctx.Done():
		g.logger.Info("REST gateway context cancelled, shutting down")
		return g.Stop(g.cfg.ShutdownTimeout)

	case <-g.stopChan:
		g.logger.Info("REST gateway stop requested")
		return nil

	case err := <-errChan:
		g.mu.Lock()
		g.running = false
		g.mu.Unlock()
		g.monitor.Update(healthComponent, health.FromError(healthComponent, err))
		return errors.WrapInternal(err, "Gateway", "Start", "HTTP server failed")
	}
}

// Stop gracefully shuts down the server.
func (g *Gateway) Stop(timeout time.Duration) error {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return nil
	}
	server := g.httpServer
	g.mu.Unlock()

	g.stopOnce.Do(func() { close(g.stopChan) })

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return errors.WrapInternal(err, "Gateway", "Stop", "graceful shutdown failed")
	}

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	g.logger.Info("REST gateway stopped")
	return nil
}

// IsRunning reports whether the server is currently serving.
func (g *Gateway) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}

// Traffic returns the gateway's traffic counters.
func (g *Gateway) Traffic() *gateway.Traffic {
	return &g.traffic
}

func (g *Gateway) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.limiter.Allow() {
			g.traffic.RecordFailure()
			g.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accountingMiddleware tags every request with an ID, bounds the body size,
// and feeds the traffic counters.
func (g *Gateway) accountingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := gateway.RequestID(r)
		w.Header().Set(gateway.RequestIDHeader, requestID)

		r.Body = http.MaxBytesReader(w, r.Body, g.cfg.MaxBodyBytes)
		g.traffic.RecordRequest(int(r.ContentLength))

		next.ServeHTTP(w, r)

		if g.trafficGauge != nil {
			g.traffic.Publish(g.trafficGauge)
		}
	})
}

func (g *Gateway) handleIndex(w http.ResponseWriter, _ *http.Request) {
	g.writeJSON(w, http.StatusOK, map[string]any{
		"service": "fetchlab REST API",
		"endpoints": []string{
			"GET /api/authors", "GET /api/authors/{id}", "GET /api/authors/{id}/books",
			"GET /api/books", "GET /api/books/{id}", "GET /api/books/search?q=",
			"GET /api/books/by-genre/{genre}",
			"GET /api/customers", "GET /api/customers/{id}", "GET /api/customers/{id}/orders",
			"GET /api/orders", "GET /api/orders/{id}",
			"POST, PUT, DELETE on each resource", "PUT /api/orders/{id}/status",
		},
	})
}

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	g.mu.RLock()
	// Before Setup the gateway is still assembling; only a configured
	// server that is not serving counts as down.
	serving := g.running || g.httpServer == nil
	startedAt := g.startedAt
	g.mu.RUnlock()

	var uptime time.Duration
	if !startedAt.IsZero() {
		uptime = time.Since(startedAt)
	}

	g.monitor.Update(healthComponent,
		health.FromTraffic(healthComponent, serving, g.traffic.Snapshot(), uptime))
	aggregate := g.monitor.AggregateHealth("fetchlab-rest")

	status := http.StatusOK
	if aggregate.IsUnhealthy() {
		status = http.StatusServiceUnavailable
	}
	g.writeJSON(w, status, aggregate)
}

func (g *Gateway) handleStats(w http.ResponseWriter, _ *http.Request) {
	g.writeJSON(w, http.StatusOK, g.traffic.Snapshot())
}
