// Package loader fetches the film catalog from a primary source with a
// single fallback.
package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/filmcat/internal/domain/model"
	"github.com/okian/filmcat/pkg/logger"
	"github.com/okian/filmcat/pkg/metrics"
)

// DefaultTimeout bounds a single fetch when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Result describes a successful load.
type Result struct {
	Films    []model.Film
	Source   string
	Fallback bool
	Duration time.Duration
}

// Loader fetches from the primary source and, only when that fails, from
// the fallback. The two sources are never raced.
type Loader struct {
	primary  Source
	fallback Source
	timeout  time.Duration
	log      logger.Logger
}

// New creates a Loader for primary.
func New(primary Source, opts ...Option) *Loader {
	l := &Loader{
		primary: primary,
		timeout: DefaultTimeout,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the dataset. The returned error wraps ErrLoadFailure when a
// source fails and ErrFallbackFailure when no source succeeded. A cancelled
// ctx stops the load without trying the fallback.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	start := time.Now()

	films, perr := l.attempt(ctx, l.primary)
	if perr == nil {
		return Result{Films: films, Source: l.primary.Name(), Duration: time.Since(start)}, nil
	}
	if ctx.Err() != nil {
		return Result{}, perr
	}

	if l.fallback == nil {
		return Result{}, fmt.Errorf("%w: no fallback source: %w", ErrFallbackFailure, perr)
	}

	metrics.RecordCatalogFallback()
	l.log.Warn(ctx, "primary catalog source failed, trying fallback",
		logger.String("primary", l.primary.Name()),
		logger.String("fallback", l.fallback.Name()),
		logger.Error(perr),
	)

	films, ferr := l.attempt(ctx, l.fallback)
	if ferr != nil {
		return Result{}, fmt.Errorf("%w: %w; %w", ErrFallbackFailure, perr, ferr)
	}
	return Result{Films: films, Source: l.fallback.Name(), Fallback: true, Duration: time.Since(start)}, nil
}

func (l *Loader) attempt(ctx context.Context, src Source) ([]model.Film, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrLoadFailure)
	}

	loadID := uuid.NewString()
	fetchCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	films, err := src.Fetch(fetchCtx)
	elapsed := float64(time.Since(start).Nanoseconds()) / 1e6

	if err != nil {
		metrics.RecordCatalogLoad(src.Name(), "failure", elapsed)
		l.log.Debug(ctx, "catalog fetch failed",
			logger.String("load_id", loadID),
			logger.String("source", src.Name()),
			logger.Error(err),
		)
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailure, src.Name(), err)
	}

	metrics.RecordCatalogLoad(src.Name(), "success", elapsed)
	l.log.Info(ctx, "catalog fetched",
		logger.String("load_id", loadID),
		logger.String("source", src.Name()),
		logger.Int("films", len(films)),
		logger.Float64("latency_ms", elapsed),
	)
	return films, nil
}
