// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Database DatabaseConfig `yaml:"database"`
	Routes   RoutesConfig   `yaml:"routes"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// BackendConfig configures where admin collections come from.
// Use "builtin" to serve collections from the local database, or "remote"
// to reconcile against an external backend API.
type BackendConfig struct {
	Mode    string        `yaml:"mode"` // "builtin" or "remote"
	BaseURL string        `yaml:"base_url,omitempty"`
	APIKey  string        `yaml:"api_key,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DatabaseConfig configures local storage (builtin mode).
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // sqlite path, or "memory" for ephemeral storage
}

// RoutesConfig configures the route tree and its redirect surfaces.
type RoutesConfig struct {
	File          string `yaml:"file"`
	LoginPath     string `yaml:"login_path"`
	ForbiddenPath string `yaml:"forbidden_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads, expands, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Environment variable names overriding file values.
const (
	EnvServerHost  = "ASKHUB_SERVER_HOST"
	EnvServerPort  = "ASKHUB_SERVER_PORT"
	EnvBackendMode = "ASKHUB_BACKEND_MODE"
	EnvBackendURL  = "ASKHUB_BACKEND_URL"
	EnvDatabaseDSN = "ASKHUB_DATABASE_DSN"
	EnvLogLevel    = "ASKHUB_LOG_LEVEL"
	EnvLogFormat   = "ASKHUB_LOG_FORMAT"
)

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvServerHost); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv(EnvBackendMode); v != "" {
		cfg.Backend.Mode = v
	}
	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv(EnvDatabaseDSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Backend.Mode == "" {
		cfg.Backend.Mode = "builtin"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 10 * time.Second
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "askhub.db"
	}
	if cfg.Routes.File == "" {
		cfg.Routes.File = "routes.yaml"
	}
	if cfg.Routes.LoginPath == "" {
		cfg.Routes.LoginPath = "/auth/login"
	}
	if cfg.Routes.ForbiddenPath == "" {
		cfg.Routes.ForbiddenPath = "/403"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}

	switch cfg.Backend.Mode {
	case "builtin":
	case "remote":
		if cfg.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url required in remote mode")
		}
	default:
		return fmt.Errorf("backend.mode %q must be builtin or remote", cfg.Backend.Mode)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q unknown", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q unknown", cfg.Logging.Format)
	}

	return nil
}
