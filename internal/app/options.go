package service

import (
	"github.com/okian/filmcat/internal/adapters/repository"
	"github.com/okian/filmcat/internal/domain/query"
	"github.com/okian/filmcat/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the catalog store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPipeline sets the query pipeline.
func WithPipeline(p *query.Pipeline) Option {
	return func(s *Service) {
		if p != nil {
			s.pipeline = p
		}
	}
}

// WithLoader sets the catalog loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// WithSurfaces adds surfaces that receive every new view.
func WithSurfaces(surfaces ...Surface) Option {
	return func(s *Service) {
		for _, sf := range surfaces {
			if sf != nil {
				s.surfaces = append(s.surfaces, sf)
			}
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}
