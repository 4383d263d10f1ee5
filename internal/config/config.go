// Package config defines the builder configuration and its loading.
//
// Configuration layers, lowest to highest precedence: built-in defaults,
// an optional YAML file named by BASELINE_CONFIG, then BASELINE_-prefixed
// environment variables. A .env file in the working directory is folded
// into the environment before loading.
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Backend names for the session/profile stores.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds process configuration for the profile builder.
type Config struct {
	// Backend selects the store implementation: postgres or sqlite.
	Backend string `koanf:"backend"`

	// Endpoint is the store host:port (or a full postgres:// URL).
	Endpoint string `koanf:"endpoint"`

	// Credential is the store password or service key.
	Credential string `koanf:"credential"`

	// User and Database identify the postgres role and database.
	User     string `koanf:"user"`
	Database string `koanf:"database"`

	// SQLitePath locates the local database file. Empty means the
	// per-user default under the home directory.
	SQLitePath string `koanf:"sqlite_path"`

	// SessionLimit caps how many recent sessions a build fetches.
	SessionLimit int `koanf:"session_limit"`

	// QualityThreshold triggers a warning when a built profile's data
	// quality score falls below it. Never a failure.
	QualityThreshold float64 `koanf:"quality_threshold"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Backend:          BackendPostgres,
		User:             "postgres",
		Database:         "postgres",
		SessionLimit:     8,
		QualityThreshold: 0.85,
		LogLevel:         "info",
	}
}

// Validate checks that the configuration is usable before any store is
// dialed. The postgres backend needs both endpoint and credential.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPostgres:
		if c.Endpoint == "" || c.Credential == "" {
			return fmt.Errorf("%w: endpoint and credential are required for the postgres backend", ErrMissingCredentials)
		}
	case BackendSQLite:
		// Local file store, nothing required.
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if c.SessionLimit < 2 {
		return fmt.Errorf("%w: session_limit must be at least 2", ErrInvalidConfig)
	}
	return nil
}

// DSN builds the postgres connection string from endpoint, user,
// credential, and database. A full postgres:// endpoint is returned as-is.
func (c *Config) DSN() string {
	if strings.Contains(c.Endpoint, "://") {
		return c.Endpoint
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Credential), c.Endpoint, c.Database)
}
