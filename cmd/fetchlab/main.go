// Package main implements the entry point for the FetchLab server. FetchLab
// serves one bookstore dataset over two transports side by side: a REST API
// resolved through eager multi-call fetching and a GraphQL API resolved
// through field-selective fetching, with the cost of every request measured.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/fetchlab/config"
	gwgraphql "github.com/c360/fetchlab/gateway/graphql"
	gwhttp "github.com/c360/fetchlab/gateway/http"
	"github.com/c360/fetchlab/metric"
	"github.com/c360/fetchlab/store"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "fetchlab"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	loaded, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The running configuration lives behind SafeConfig; CLI flag overrides
	// go through Update so they are validated like any other change.
	safeCfg := config.NewSafeConfig(loaded)
	overridden := safeCfg.Get()
	if cliCfg.LogLevel != "" {
		overridden.Log.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		overridden.Log.Format = cliCfg.LogFormat
	}
	if err := safeCfg.Update(overridden); err != nil {
		return fmt.Errorf("apply flag overrides: %w", err)
	}
	cfg := safeCfg.Get()

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	dataStore := newStore(cfg)
	registry := metric.NewRegistry()

	restGateway, err := gwhttp.NewGateway(cfg.HTTP, dataStore, registry.CoreMetrics(), logger)
	if err != nil {
		return fmt.Errorf("create REST gateway: %w", err)
	}
	if err := restGateway.RegisterMetrics(registry); err != nil {
		return fmt.Errorf("register REST gateway metrics: %w", err)
	}
	if err := restGateway.Setup(); err != nil {
		return fmt.Errorf("setup REST gateway: %w", err)
	}

	graphqlServer, err := gwgraphql.NewServer(cfg.GraphQL, dataStore, registry.CoreMetrics(), logger)
	if err != nil {
		return fmt.Errorf("create GraphQL gateway: %w", err)
	}
	if err := graphqlServer.RegisterMetrics(registry); err != nil {
		return fmt.Errorf("register GraphQL gateway metrics: %w", err)
	}
	if err := graphqlServer.Setup(); err != nil {
		return fmt.Errorf("setup GraphQL gateway: %w", err)
	}

	return serve(cfg, restGateway, graphqlServer, registry, cliCfg.ShutdownTimeout)
}

// newStore builds the shared store, seeded unless disabled.
func newStore(cfg *config.Config) *store.Store {
	if cfg.SeedEnabled() {
		slog.Info("Store seeded with sample catalog")
		return store.NewSeeded()
	}
	slog.Info("Store starting empty")
	return store.New()
}

// serve runs both gateways (and the metrics server when enabled) until a
// shutdown signal arrives.
func serve(
	cfg *config.Config,
	restGateway *gwhttp.Gateway,
	graphqlServer *gwgraphql.Server,
	registry *metric.Registry,
	shutdownTimeout time.Duration,
) error {
	signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	group, ctx := errgroup.WithContext(signalCtx)

	restReady := make(chan struct{})
	group.Go(func() error {
		return restGateway.Start(ctx, restReady)
	})

	graphqlReady := make(chan struct{})
	group.Go(func() error {
		return graphqlServer.Start(ctx, graphqlReady)
	})

	var metricsServer *metric.Server
	if cfg.Metrics.Enabled {
		metricsServer = metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		group.Go(func() error {
			return metricsServer.Start()
		})
		group.Go(func() error {
			<-ctx.Done()
			return metricsServer.Stop()
		})
		slog.Info("Metrics server enabled", "address", metricsServer.Address())
	}

	// A gateway that fails before listening never closes its ready channel;
	// ctx unblocks the wait in that case.
	select {
	case <-restReady:
	case <-ctx.Done():
	}
	select {
	case <-graphqlReady:
	case <-ctx.Done():
	}
	slog.Info("FetchLab started",
		"rest_port", cfg.HTTP.Port,
		"graphql_port", cfg.GraphQL.Port,
		"seeded", cfg.SeedEnabled())

	<-ctx.Done()
	slog.Info("Received shutdown signal", "timeout", shutdownTimeout)

	if err := restGateway.Stop(shutdownTimeout); err != nil {
		slog.Error("REST gateway shutdown error", "error", err)
	}
	if err := graphqlServer.Stop(shutdownTimeout); err != nil {
		slog.Error("GraphQL gateway shutdown error", "error", err)
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("gateway failed: %w", err)
	}

	slog.Info("FetchLab shutdown complete")
	return nil
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting FetchLab (fetch strategy comparison)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}
