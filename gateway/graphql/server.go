// Package graphql provides the GraphQL gateway. Incoming documents are
// parsed and validated against the bookstore schema, converted into field
// selections, and resolved through the field-selective fetch strategy.
package graphql

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/c360/fetchlab/config"
	"github.com/c360/fetchlab/errors"
	"github.com/c360/fetchlab/fetch/fieldsel"
	"github.com/c360/fetchlab/gateway"
	"github.com/c360/fetchlab/health"
	"github.com/c360/fetchlab/metric"
	"github.com/c360/fetchlab/relation"
	"github.com/c360/fetchlab/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// healthComponent names this gateway in health reports.
const healthComponent = "graphql-gateway"

// Server manages the HTTP server for the GraphQL endpoint.
type Server struct {
	cfg      config.GraphQLConfig
	executor *Executor
	logger   *slog.Logger

	traffic      gateway.Traffic
	trafficGauge *prometheus.GaugeVec
	monitor      *health.Monitor
	httpServer   *http.Server
	mux          *http.ServeMux

	// Lifecycle
	startedAt time.Time
	running   bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewServer creates a GraphQL server over the given store. metrics may be
// nil to disable instrumentation.
func NewServer(cfg config.GraphQLConfig, s *store.Store, metrics *metric.Metrics, logger *slog.Logger) (*Server, error) {
	if s == nil {
		return nil, errors.WrapInvalid(fmt.Errorf("store is nil"),
			"Server", "NewServer", "store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	strategy := fieldsel.New(s, relation.NewResolver(s))

	return &Server{
		cfg:      cfg,
		executor: NewExecutor(strategy, metrics, cfg.MaxQueryDepth),
		logger:   logger,
		monitor:  health.NewMonitor(),
		mux:      http.NewServeMux(),
		stopChan: make(chan struct{}),
	}, nil
}

// Monitor returns the server's health monitor.
func (s *Server) Monitor() *health.Monitor {
	return s.monitor
}

// RegisterMetrics publishes the server's traffic counters through the
// registrar. Must be called before Start; the gauges refresh on every
// request.
func (s *Server) RegisterMetrics(reg metric.Registrar) error {
	vec := gateway.NewTrafficGauge("graphql_traffic")
	if err := reg.RegisterGaugeVec(healthComponent, "traffic", vec); err != nil {
		return err
	}
	s.trafficGauge = vec
	return nil
}

// Executor returns the server's executor, usable without HTTP transport.
func (s *Server) Executor() *Executor {
	return s.executor
}

// Traffic returns the gateway's traffic counters.
func (s *Server) Traffic() *gateway.Traffic {
	return &s.traffic
}

// Setup configures the HTTP server and routes.
func (s *Server) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc(s.cfg.Path, s.handleGraphQL)

	if s.cfg.Playground {
		s.mux.Handle("/", playground.Handler("Bookstore GraphQL", s.cfg.Path))
		s.logger.Info("GraphQL playground enabled",
			"url", fmt.Sprintf("http://%s:%d/", s.cfg.Host, s.cfg.Port))
	}

	handler := gateway.CORS(s.cfg.CORSOrigins, "GET, POST, OPTIONS")(s.mux)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("GraphQL gateway configured",
		"address", s.httpServer.Addr,
		"path", s.cfg.Path,
		"max_query_depth", s.cfg.MaxQueryDepth)
	return nil
}

// Start runs the HTTP server until the context is cancelled or Stop is
// called. The ready channel is closed when the server begins listening.
func (s *Server) Start(ctx context.Context, ready chan<- struct{}) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.WrapInvalid(fmt.Errorf("server already running"),
			"Server", "Start", "start refused")
	}
	if s.httpServer == nil {
		s.mu.Unlock()
		return errors.WrapInternal(fmt.Errorf("Setup not called"),
			"Server", "Start", "server not configured")
	}
	s.running = true
	s.startedAt = time.Now()
	server := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		s.logger.Info("GraphQL gateway starting", "address", server.Addr)

		if ready != nil {
			close(ready)
		}

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("GraphQL gateway server error", "error", err)
			select {
			case errChan <- err:
			case <-ctx.Done():
			case <-s.stopChan:
			}
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("GraphQL gateway context cancelled, shutting down")
		return s.Stop(30 * time.Second)

	case <-s.stopChan:
		s.logger.Info("GraphQL gateway stop requested")
		return nil

	case err := <-errChan:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.monitor.Update(healthComponent, health.FromError(healthComponent, err))
		return errors.WrapInternal(err, "Server", "Start", "HTTP server failed")
	}
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	server := s.httpServer
	s.mu.Unlock()

	s.stopOnce.Do(func() { close(s.stopChan) })

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return errors.WrapInternal(err, "Server", "Stop", "graceful shutdown failed")
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("GraphQL gateway stopped")
	return nil
}

// IsRunning reports whether the server is currently serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// graphqlRequest is the standard POST body shape.
type graphqlRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	requestID := gateway.RequestID(r)
	w.Header().Set(gateway.RequestIDHeader, requestID)

	var req graphqlRequest
	switch r.Method {
	case http.MethodPost:
		defer func() { _ = r.Body.Close() }()
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.traffic.RecordFailure()
			s.writeJSON(w, http.StatusBadRequest, &Response{Errors: gqlerror.List{
				requestError("BAD_REQUEST", "malformed request body")}})
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.UnmarshalFromString(raw, &req.Variables); err != nil {
				s.traffic.RecordFailure()
				s.writeJSON(w, http.StatusBadRequest, &Response{Errors: gqlerror.List{
					requestError("BAD_REQUEST", "malformed variables parameter")}})
				return
			}
		}
	default:
		s.traffic.RecordFailure()
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if req.Query == "" {
		s.traffic.RecordFailure()
		s.writeJSON(w, http.StatusBadRequest, &Response{Errors: gqlerror.List{
			requestError("BAD_REQUEST", "query is required")}})
		return
	}

	s.traffic.RecordRequest(len(req.Query))

	resp := s.executor.Execute(req.Query, req.Variables, req.OperationName)

	w.Header().Set(gateway.FetchCallsHeader, strconv.Itoa(resp.Stats.Calls))
	w.Header().Set(gateway.FetchBytesHeader, strconv.Itoa(resp.Stats.Bytes))
	s.writeJSON(w, http.StatusOK, resp)

	if s.trafficGauge != nil {
		s.traffic.Publish(s.trafficGauge)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("response encoding failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		s.traffic.RecordFailure()
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.traffic.RecordFailure()
		return
	}
	if len(resp.Errors) == 0 {
		s.traffic.RecordSuccess(len(data))
	} else {
		s.traffic.RecordFailure()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	serving := s.running || s.httpServer == nil
	startedAt := s.startedAt
	s.mu.RUnlock()

	var uptime time.Duration
	if !startedAt.IsZero() {
		uptime = time.Since(startedAt)
	}

	s.monitor.Update(healthComponent,
		health.FromTraffic(healthComponent, serving, s.traffic.Snapshot(), uptime))
	aggregate := s.monitor.AggregateHealth("fetchlab-graphql")

	data, err := json.Marshal(aggregate)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if aggregate.IsUnhealthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_, _ = w.Write(data)
}
