// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and FILMCAT_ env vars over the defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// LogFile, when set, tees logs into a rotating file.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`
	LogMaxAgeDays int    `koanf:"log_max_age_days"`
	LogCompress   bool   `koanf:"log_compress"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataURL is the primary catalog source when set (http or https).
	DataURL string `koanf:"data_url"`

	// DataFile is the primary catalog source when DataURL is empty.
	DataFile string `koanf:"data_file"`

	// FallbackFile replaces the embedded fallback catalog when set.
	FallbackFile string `koanf:"fallback_file"`

	// FetchTimeoutMS bounds a single source fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// CollationLanguage is a BCP 47 tag used for alphabetical sorting.
	CollationLanguage string `koanf:"collation_language"`

	// SearchDescriptions makes the search also match film descriptions.
	SearchDescriptions bool `koanf:"search_descriptions"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		LogMaxSizeMB:      50,
		LogMaxBackups:     3,
		LogMaxAgeDays:     14,
		Addr:              ":9080",
		DataFile:          "data.json",
		FetchTimeoutMS:    5000,
		CollationLanguage: "pt-BR",
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}
