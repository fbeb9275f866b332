package loader

import (
	"net/http"

	"github.com/okian/filmcat/internal/config"
	"github.com/okian/filmcat/pkg/logger"
)

// PrimarySource picks the configured primary: data_url when set, else data_file.
func PrimarySource(cfg *config.Config) Source {
	if cfg.DataURL != "" {
		return NewHTTPSource(cfg.DataURL, &http.Client{Timeout: cfg.FetchTimeout()})
	}
	return NewFileSource(cfg.DataFile)
}

// FallbackSource picks the configured fallback: fallback_file when set, else
// the embedded catalog.
func FallbackSource(cfg *config.Config) Source {
	if cfg.FallbackFile != "" {
		return NewFileSource(cfg.FallbackFile)
	}
	return NewEmbeddedSource()
}

// FromConfig builds a Loader from cfg.
func FromConfig(cfg *config.Config, log logger.Logger) *Loader {
	return New(PrimarySource(cfg),
		WithFallback(FallbackSource(cfg)),
		WithTimeout(cfg.FetchTimeout()),
		WithLogger(log),
	)
}
