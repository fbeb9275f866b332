// Package service is the catalog controller. It owns the catalog store,
// turns user commands into store mutations and pushes the recomputed view
// to every attached surface.
package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/okian/filmcat/internal/adapters/loader"
	"github.com/okian/filmcat/internal/adapters/repository"
	"github.com/okian/filmcat/internal/domain/query"
	"github.com/okian/filmcat/internal/domain/types"
	"github.com/okian/filmcat/pkg/logger"
	"github.com/okian/filmcat/pkg/metrics"
)

// Loader produces the full dataset or fails.
type Loader interface {
	Load(ctx context.Context) (loader.Result, error)
}

// Surface receives every new view. Show must not call back into the Service.
type Surface interface {
	Show(ctx context.Context, v types.View) error
}

// Command names used for metrics and logs.
const (
	CmdSearch      = "search"
	CmdClearSearch = "clear_search"
	CmdCategory    = "category"
	CmdSort        = "sort"
	CmdReset       = "reset"
	CmdReload      = "reload"
)

// loadRun tracks one load attempt.
type loadRun struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Service implements the catalog commands.
type Service struct {
	// pubMu serializes mutate/compute/publish so surfaces see views in order.
	pubMu sync.Mutex
	mu    sync.RWMutex

	store    repository.Store
	pipeline *query.Pipeline
	loader   Loader
	surfaces []Surface

	status   types.Status
	source   string
	fallback bool
	lastErr  error
	loadedAt time.Time
	gen      uint64
	current  *loadRun
	started  bool

	logger logger.Logger
}

// New creates a Service. Without options it has an empty store, the default
// pipeline and no loader.
func New(opts ...Option) *Service {
	s := &Service{
		store:    repository.NewCatalogStore(),
		pipeline: query.New(),
		status:   types.StatusLoading,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start publishes the loading view and begins the initial load in the
// background. Calling Start again is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.loader == nil {
		s.mu.Unlock()
		return ErrNoLoader
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting catalog service")
	s.publishCurrent(ctx)

	run, lctx := s.beginLoad(ctx)
	go func() {
		_ = s.finishLoad(ctx, run, lctx)
	}()
	return nil
}

// Stop cancels any in-flight load.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.cancel()
	}
	s.started = false
}

// Wait blocks until the most recent load has finished and returns its error.
// A load superseded while waiting is followed to its successor.
func (s *Service) Wait(ctx context.Context) error {
	for {
		s.mu.RLock()
		run := s.current
		s.mu.RUnlock()
		if run == nil {
			return ErrNotStarted
		}

		select {
		case <-run.done:
		case <-ctx.Done():
			return ctx.Err()
		}

		s.mu.RLock()
		latest := s.current
		s.mu.RUnlock()
		if latest == run {
			return run.err
		}
	}
}

// Reload fetches the catalog again and waits for the result. A reload
// supersedes any in-flight load. On success the selection resets to defaults.
func (s *Service) Reload(ctx context.Context) (types.View, error) {
	if s.loader == nil {
		return s.View(), ErrNoLoader
	}
	metrics.RecordCommand(CmdReload)

	run, lctx := s.beginLoad(ctx)
	err := s.finishLoad(ctx, run, lctx)
	return s.View(), err
}

func (s *Service) beginLoad(ctx context.Context) (*loadRun, context.Context) {
	lctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.cancel()
	}
	s.gen++
	run := &loadRun{gen: s.gen, cancel: cancel, done: make(chan struct{})}
	s.current = run
	return run, lctx
}

func (s *Service) finishLoad(ctx context.Context, run *loadRun, lctx context.Context) error {
	defer run.cancel()
	defer close(run.done)

	res, err := s.loader.Load(lctx)

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	if run.gen != s.gen {
		s.mu.Unlock()
		run.err = ErrSuperseded
		s.logger.Debug(ctx, "discarding superseded catalog load", logger.Int("generation", int(run.gen)))
		return run.err
	}

	if err != nil {
		s.lastErr = err
		if s.status != types.StatusReady {
			s.status = types.StatusUnavailable
		}
		status := s.status
		s.mu.Unlock()

		run.err = err
		s.logger.Error(ctx, "catalog load failed",
			logger.String("status", string(status)),
			logger.Error(err),
		)
		s.publish(ctx, s.View())
		return err
	}

	if lerr := s.store.Load(res.Films); lerr != nil {
		s.lastErr = lerr
		if s.status != types.StatusReady {
			s.status = types.StatusUnavailable
		}
		s.mu.Unlock()

		run.err = lerr
		s.logger.Error(ctx, "catalog rejected by store", logger.Error(lerr))
		s.publish(ctx, s.View())
		return lerr
	}
	s.status = types.StatusReady
	s.source = res.Source
	s.fallback = res.Fallback
	s.lastErr = nil
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info(ctx, "catalog loaded",
		logger.String("source", res.Source),
		logger.Bool("fallback", res.Fallback),
		logger.Int("films", len(res.Films)),
		logger.Float64("duration_ms", float64(res.Duration.Microseconds())/1000),
	)
	s.publish(ctx, s.View())
	return nil
}

// Search sets the search term. Category and sort are kept.
func (s *Service) Search(ctx context.Context, term string) types.View {
	return s.apply(ctx, CmdSearch, func() {
		s.store.SetSearchTerm(term)
	})
}

// ClearSearch empties the search term only.
func (s *Service) ClearSearch(ctx context.Context) types.View {
	return s.apply(ctx, CmdClearSearch, func() {
		s.store.SetSearchTerm("")
	})
}

// SelectCategory filters by category. Unknown categories fall back to all
// categories. The search term is kept.
func (s *Service) SelectCategory(ctx context.Context, category string) types.View {
	return s.apply(ctx, CmdCategory, func() {
		if !s.store.SetCategory(category) {
			s.logger.Debug(ctx, "unknown category coerced", logger.String("category", category))
		}
	})
}

// SelectSort changes the sort order. Unknown keys fall back to the default
// order. The search term is kept.
func (s *Service) SelectSort(ctx context.Context, key string) types.View {
	return s.apply(ctx, CmdSort, func() {
		k, ok := types.ParseSortKey(key)
		if !ok {
			s.logger.Debug(ctx, "unknown sort key coerced", logger.String("sort", key))
			metrics.RecordInvalidSelection("sort")
		}
		s.store.SetSortKey(k)
	})
}

// Reset restores the default selection. The dataset is untouched.
func (s *Service) Reset(ctx context.Context) types.View {
	return s.apply(ctx, CmdReset, s.store.Reset)
}

func (s *Service) apply(ctx context.Context, cmd string, mutate func()) types.View {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	metrics.RecordCommand(cmd)
	mutate()
	v := s.View()
	s.publish(ctx, v)
	return v
}

// View computes the current derived view. Status and catalog state are read
// together so a concurrent load never mixes a new dataset with an old
// selection.
func (s *Service) View() types.View {
	s.mu.RLock()
	status, source, lastErr := s.status, s.source, s.lastErr
	snap := s.store.Snapshot()
	s.mu.RUnlock()

	return s.compose(status, source, lastErr, snap, snap.Selection)
}

// Query computes a view for sel without changing the active selection.
// Invalid categories and sort keys are coerced the same way commands do.
func (s *Service) Query(term, category, sort string) types.View {
	s.mu.RLock()
	status, source, lastErr := s.status, s.source, s.lastErr
	snap := s.store.Snapshot()
	s.mu.RUnlock()

	sel := types.DefaultSelection()
	sel.SearchTerm = strings.ToLower(strings.TrimSpace(term))
	if c := strings.TrimSpace(category); c != "" && slices.Contains(snap.Categories, c) {
		sel.Category = c
	}
	sel.Sort, _ = types.ParseSortKey(sort)

	return s.compose(status, source, lastErr, snap, sel)
}

// Categories returns the category list including the all sentinel.
func (s *Service) Categories() []string {
	return s.store.Categories()
}

// Status returns the catalog lifecycle status.
func (s *Service) Status() types.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Service) compose(status types.Status, source string, lastErr error, snap repository.Snapshot, sel types.Selection) types.View {
	start := time.Now()
	films := s.pipeline.Compute(snap.Dataset, sel)
	metrics.RecordQueryLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	metrics.UpdateViewSize(len(films))

	v := types.View{
		Status:     status,
		Selection:  sel,
		Categories: snap.Categories,
		Films:      films,
		Total:      len(snap.Dataset),
		Source:     source,
	}
	if status == types.StatusUnavailable && lastErr != nil {
		v.Error = lastErr.Error()
	}
	return v
}

func (s *Service) publishCurrent(ctx context.Context) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.publish(ctx, s.View())
}

// publish assumes pubMu is held.
func (s *Service) publish(ctx context.Context, v types.View) {
	for _, sf := range s.surfaces {
		if err := sf.Show(ctx, v); err != nil {
			s.logger.Warn(ctx, "surface failed to show view", logger.Error(err))
		}
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sel := s.store.Selection()
	stats := map[string]interface{}{
		"started":    s.started,
		"status":     string(s.status),
		"source":     s.source,
		"fallback":   s.fallback,
		"films":      s.store.Len(),
		"categories": len(s.store.Categories()) - 1,
		"searchTerm": sel.SearchTerm,
		"category":   sel.Category,
		"sort":       string(sel.Sort),
		"generation": s.gen,
	}
	if !s.loadedAt.IsZero() {
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["lastError"] = s.lastErr.Error()
	}
	return stats
}

