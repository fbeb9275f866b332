package repository

import (
	"slices"
	"strings"
	"sync"

	"github.com/okian/filmcat/internal/domain/model"
	"github.com/okian/filmcat/internal/domain/types"
	"github.com/okian/filmcat/pkg/metrics"
)

// CatalogStore is the in-memory Store implementation.
//
// The dataset slice is private to the store and never mutated after Load;
// readers receive copies.
type CatalogStore struct {
	mu            sync.RWMutex
	dataset       []model.Film
	categories    []string
	selection     types.Selection
	recordMetrics bool
}

var _ Store = (*CatalogStore)(nil)

// NewCatalogStore creates an empty store with the default selection.
func NewCatalogStore(opts ...Option) *CatalogStore {
	s := &CatalogStore{
		dataset:       []model.Film{},
		categories:    []string{types.AllCategories},
		selection:     types.DefaultSelection(),
		recordMetrics: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load implements Store.
func (s *CatalogStore) Load(dataset []model.Film) error {
	if dataset == nil {
		return ErrMalformedDataset
	}

	s.mu.Lock()
	s.load(dataset)
	size, cats := len(s.dataset), len(s.categories)-1
	s.mu.Unlock()

	if s.recordMetrics {
		metrics.UpdateDatasetSize(size)
		metrics.UpdateCategoryCount(cats)
	}
	return nil
}

// load assumes the write lock is held (or the store is not yet shared).
func (s *CatalogStore) load(dataset []model.Film) {
	s.dataset = slices.Clone(dataset)
	s.categories = distinctCategories(s.dataset)
	s.selection = types.DefaultSelection()
}

// SetSearchTerm implements Store.
func (s *CatalogStore) SetSearchTerm(term string) {
	term = strings.ToLower(strings.TrimSpace(term))

	s.mu.Lock()
	s.selection.SearchTerm = term
	s.mu.Unlock()
}

// SetCategory implements Store.
func (s *CatalogStore) SetCategory(category string) bool {
	category = strings.TrimSpace(category)
	if category == "" {
		category = types.AllCategories
	}

	s.mu.Lock()
	ok := slices.Contains(s.categories, category)
	if !ok {
		category = types.AllCategories
	}
	s.selection.Category = category
	s.mu.Unlock()

	if !ok && s.recordMetrics {
		metrics.RecordInvalidSelection("category")
	}
	return ok
}

// SetSortKey implements Store.
func (s *CatalogStore) SetSortKey(key types.SortKey) bool {
	ok := key.Valid()
	if !ok {
		key = types.SortDefault
	}

	s.mu.Lock()
	s.selection.Sort = key
	s.mu.Unlock()

	if !ok && s.recordMetrics {
		metrics.RecordInvalidSelection("sort")
	}
	return ok
}

// Reset implements Store.
func (s *CatalogStore) Reset() {
	s.mu.Lock()
	s.selection = types.DefaultSelection()
	s.mu.Unlock()
}

// Dataset implements Store.
func (s *CatalogStore) Dataset() []model.Film {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.dataset)
}

// Categories implements Store.
func (s *CatalogStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// Selection implements Store.
func (s *CatalogStore) Selection() types.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Snapshot implements Store.
func (s *CatalogStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Dataset:    slices.Clone(s.dataset),
		Categories: slices.Clone(s.categories),
		Selection:  s.selection,
	}
}

// Len implements Store.
func (s *CatalogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dataset)
}

// distinctCategories returns AllCategories followed by the non-empty
// categories of films, ordered case-insensitively with ties broken by the
// raw value.
func distinctCategories(films []model.Film) []string {
	seen := make(map[string]struct{}, len(films))
	cats := make([]string, 0, len(films))
	for _, f := range films {
		c := strings.TrimSpace(f.Category)
		if c == "" || c == types.AllCategories {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		cats = append(cats, c)
	}

	slices.SortFunc(cats, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	return append([]string{types.AllCategories}, cats...)
}
