package loader

import (
	"time"

	"github.com/okian/filmcat/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithFallback sets the source tried once after the primary fails.
func WithFallback(src Source) Option {
	return func(l *Loader) {
		l.fallback = src
	}
}

// WithTimeout bounds each source fetch. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the logger used for load attempts.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}
