package repository

import "github.com/okian/filmcat/internal/domain/model"

// Option applies a configuration option to the CatalogStore.
type Option func(*CatalogStore)

// WithDataset seeds the store with an initial dataset. A nil dataset is ignored.
func WithDataset(films []model.Film) Option {
	return func(s *CatalogStore) {
		if films != nil {
			s.load(films)
		}
	}
}

// WithMetrics toggles Prometheus recording. Enabled by default.
func WithMetrics(enabled bool) Option {
	return func(s *CatalogStore) {
		s.recordMetrics = enabled
	}
}
