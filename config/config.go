// Package config loads and validates the application configuration. Settings
// come from an optional YAML file with environment variable overrides
// (prefix FETCHLAB), and Validate fills in defaults so a zero config runs.
package config

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/c360/fetchlab/errors"
)

// maxConfigBytes bounds the config file size before parsing.
const maxConfigBytes = 1 << 20

// envPrefix namespaces environment overrides, e.g. FETCHLAB_HTTP_PORT.
const envPrefix = "fetchlab"

// Config represents the complete application configuration
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	GraphQL GraphQLConfig `yaml:"graphql"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
	Seed    SeedConfig    `yaml:"seed"`
}

// HTTPConfig configures the REST gateway
type HTTPConfig struct {
	Host            string        `yaml:"host" envconfig:"HTTP_HOST"`
	Port            int           `yaml:"port" envconfig:"HTTP_PORT"`
	CORSOrigins     []string      `yaml:"cors_origins" envconfig:"HTTP_CORS_ORIGINS"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" envconfig:"HTTP_MAX_BODY_BYTES"`
	RateLimit       float64       `yaml:"rate_limit" envconfig:"HTTP_RATE_LIMIT"`
	RateBurst       int           `yaml:"rate_burst" envconfig:"HTTP_RATE_BURST"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"HTTP_SHUTDOWN_TIMEOUT"`
}

// GraphQLConfig configures the graph gateway
type GraphQLConfig struct {
	Host          string        `yaml:"host" envconfig:"GRAPHQL_HOST"`
	Port          int           `yaml:"port" envconfig:"GRAPHQL_PORT"`
	Path          string        `yaml:"path" envconfig:"GRAPHQL_PATH"`
	Playground    bool          `yaml:"playground" envconfig:"GRAPHQL_PLAYGROUND"`
	CORSOrigins   []string      `yaml:"cors_origins" envconfig:"GRAPHQL_CORS_ORIGINS"`
	MaxQueryDepth int           `yaml:"max_query_depth" envconfig:"GRAPHQL_MAX_QUERY_DEPTH"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"GRAPHQL_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"GRAPHQL_WRITE_TIMEOUT"`
}

// MetricsConfig configures the Prometheus scrape endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"METRICS_ENABLED"`
	Port    int    `yaml:"port" envconfig:"METRICS_PORT"`
	Path    string `yaml:"path" envconfig:"METRICS_PATH"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

// SeedConfig controls whether the store starts with the sample catalog
type SeedConfig struct {
	Enabled *bool `yaml:"enabled" envconfig:"SEED_ENABLED"`
}

// Default returns a validated configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	// Validation of a zero config cannot fail; it only fills defaults.
	_ = cfg.Validate()
	return cfg
}

// Load reads configuration from an optional YAML file, applies environment
// overrides, and validates. An empty path means env + defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := safeReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "config", "Load", "read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.WrapInvalid(err, "config", "Load", "parse config file")
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.WrapInvalid(err, "config", "Load", "apply environment overrides")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate applies defaults and range-checks the configuration.
func (c *Config) Validate() error {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.MaxBodyBytes == 0 {
		c.HTTP.MaxBodyBytes = 1 << 20
	}
	if c.HTTP.RateLimit == 0 {
		c.HTTP.RateLimit = 100
	}
	if c.HTTP.RateBurst == 0 {
		c.HTTP.RateBurst = 200
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 10 * time.Second
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 5 * time.Second
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}

	if c.GraphQL.Port == 0 {
		c.GraphQL.Port = 8081
	}
	if c.GraphQL.Path == "" {
		c.GraphQL.Path = "/graphql"
	}
	if c.GraphQL.MaxQueryDepth == 0 {
		c.GraphQL.MaxQueryDepth = 10
	}
	if c.GraphQL.ReadTimeout == 0 {
		c.GraphQL.ReadTimeout = 10 * time.Second
	}
	if c.GraphQL.WriteTimeout == 0 {
		c.GraphQL.WriteTimeout = 30 * time.Second
	}
	if len(c.GraphQL.CORSOrigins) == 0 {
		c.GraphQL.CORSOrigins = []string{"*"}
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Seed.Enabled == nil {
		enabled := true
		c.Seed.Enabled = &enabled
	}

	return c.check()
}

// check verifies ranges after defaults have been applied.
func (c *Config) check() error {
	for name, port := range map[string]int{
		"http.port":    c.HTTP.Port,
		"graphql.port": c.GraphQL.Port,
		"metrics.port": c.Metrics.Port,
	} {
		if port < 1 || port > 65535 {
			return errors.WrapInvalid(
				fmt.Errorf("%s %d out of range: %w", name, port, errors.ErrInvalidConfig),
				"config", "Validate", "check port range")
		}
	}

	if c.HTTP.Port == c.GraphQL.Port {
		return errors.WrapInvalid(
			fmt.Errorf("http.port and graphql.port both %d: %w", c.HTTP.Port, errors.ErrInvalidConfig),
			"config", "Validate", "check port conflict")
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return errors.WrapInvalid(
			fmt.Errorf("log.level %q: %w", c.Log.Level, errors.ErrInvalidConfig),
			"config", "Validate", "check log level")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.WrapInvalid(
			fmt.Errorf("log.format %q: %w", c.Log.Format, errors.ErrInvalidConfig),
			"config", "Validate", "check log format")
	}

	if c.HTTP.RateLimit < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("http.rate_limit %v negative: %w", c.HTTP.RateLimit, errors.ErrInvalidConfig),
			"config", "Validate", "check rate limit")
	}
	if c.GraphQL.MaxQueryDepth < 1 {
		return errors.WrapInvalid(
			fmt.Errorf("graphql.max_query_depth %d: %w", c.GraphQL.MaxQueryDepth, errors.ErrInvalidConfig),
			"config", "Validate", "check query depth")
	}

	return nil
}

// SeedEnabled reports whether the store should start seeded.
func (c *Config) SeedEnabled() bool {
	return c.Seed.Enabled == nil || *c.Seed.Enabled
}

// safeReadFile reads a regular file with a hard size cap.
func safeReadFile(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- path is an operator-supplied flag
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() > maxConfigBytes {
		return nil, fmt.Errorf("%s exceeds %d byte limit", path, maxConfigBytes)
	}

	return io.ReadAll(io.LimitReader(f, maxConfigBytes))
}

// SafeConfig provides thread-safe access to configuration
type SafeConfig struct {
	mu     sync.RWMutex
	config *Config
}

// NewSafeConfig creates a new thread-safe config wrapper
func NewSafeConfig(cfg *Config) *SafeConfig {
	if cfg == nil {
		cfg = Default()
	}
	return &SafeConfig{config: cfg}
}

// Get returns a copy of the current configuration
func (sc *SafeConfig) Get() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	copied := *sc.config
	return &copied
}

// Update atomically replaces the configuration after validation
func (sc *SafeConfig) Update(cfg *Config) error {
	if cfg == nil {
		return errors.WrapInvalid(
			fmt.Errorf("nil config: %w", errors.ErrMissingConfig),
			"SafeConfig", "Update", "replace configuration")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.config = cfg
	return nil
}
