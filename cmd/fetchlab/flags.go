package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration options
type CLIConfig struct {
	ConfigPath      string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	Validate        bool
	ShowVersion     bool
	ShowHelp        bool
}

// parseFlags parses command-line flags with environment variable fallbacks
func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("FETCHLAB_CONFIG", ""),
		"Path to YAML configuration file (env: FETCHLAB_CONFIG)")
	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("FETCHLAB_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: FETCHLAB_LOG_LEVEL)")
	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("FETCHLAB_LOG_FORMAT", "text"),
		"Log format: text, json (env: FETCHLAB_LOG_FORMAT)")
	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("FETCHLAB_SHUTDOWN_TIMEOUT", 30*time.Second),
		"Graceful shutdown timeout (env: FETCHLAB_SHUTDOWN_TIMEOUT)")
	flag.BoolVar(&cfg.Validate, "validate",
		getEnvBool("FETCHLAB_VALIDATE", false),
		"Validate configuration and exit")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information and exit")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show detailed help and exit")

	flag.Parse()
	return cfg
}

// validateFlags checks flag values for basic sanity
func validateFlags(cfg *CLIConfig) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (must be text or json)", cfg.LogFormat)
	}

	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", cfg.ShutdownTimeout)
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not accessible: %w", err)
		}
	}

	return nil
}

// printDetailedHelp prints usage information beyond the flag summary
func printDetailedHelp() {
	fmt.Printf(`%s - fetch strategy comparison lab

A bookstore served two ways from one shared in-memory dataset:
a REST API resolved through eager multi-call fetching, and a
GraphQL API resolved through field-selective fetching. Every
response carries X-Fetch-Calls and X-Fetch-Bytes headers so the
cost of the two strategies can be compared request by request.

USAGE:
  %s [flags]

FLAGS:
`, appName, appName)
	flag.PrintDefaults()
	fmt.Printf(`
ENVIRONMENT:
  Every flag has a FETCHLAB_* fallback (see flag descriptions).
  Config file values can themselves be overridden with
  FETCHLAB_HTTP_PORT, FETCHLAB_GRAPHQL_PORT, and friends.

EXAMPLES:
  # Run with defaults (REST :8080, GraphQL :8081, metrics :9090)
  %s

  # Run with a config file and JSON logs
  %s -config fetchlab.yaml -log-format json

  # Check a config file without starting the servers
  %s -config fetchlab.yaml -validate
`, appName, appName, appName)
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns the environment variable as a bool or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
