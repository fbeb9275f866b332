package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables read by LoadConfig.
const EnvPrefix = "TMDB_"

// Defaults for Config.
const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultLanguage     = "pt-BR"
	DefaultMaxPages     = 5
	DefaultMaxRetries   = 3
	DefaultTimeout      = 15 * time.Second
	DefaultRetryBackoff = time.Second
	DefaultPageDelay    = 250 * time.Millisecond
	DefaultDetailDelay  = 200 * time.Millisecond
	BackupSuffix        = ".enriched.bak"
)

var envFiles = []string{".env", ".env.local"}

// Config controls the TMDb client and the enrichment run.
type Config struct {
	APIKey   string `koanf:"api_key"`
	BaseURL  string `koanf:"base_url"`
	Language string `koanf:"language"`

	// MaxPages bounds how many /movie/popular pages are fetched.
	MaxPages int `koanf:"max_pages"`
	// MaxRetries is the number of attempts per request.
	MaxRetries int `koanf:"max_retries"`

	Timeout      time.Duration `koanf:"-"`
	RetryBackoff time.Duration `koanf:"-"`
	PageDelay    time.Duration `koanf:"-"`
	DetailDelay  time.Duration `koanf:"-"`
}

// DefaultConfig returns a Config without an API key.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		Language:     DefaultLanguage,
		MaxPages:     DefaultMaxPages,
		MaxRetries:   DefaultMaxRetries,
		Timeout:      DefaultTimeout,
		RetryBackoff: DefaultRetryBackoff,
		PageDelay:    DefaultPageDelay,
		DetailDelay:  DefaultDetailDelay,
	}
}

// LoadConfig layers TMDB_ env vars, including values from .env files, over
// the defaults. TMDB_API_KEY is required.
func LoadConfig(_ context.Context) (*Config, error) {
	for _, f := range envFiles {
		// Missing .env files are normal.
		_ = godotenv.Load(f)
	}

	k := koanf.New(".")
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and bounds.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be positive, got %d", c.MaxPages)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("max_retries must be positive, got %d", c.MaxRetries)
	}
	return nil
}
