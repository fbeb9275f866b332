package service

import (
	"fmt"

	"github.com/okian/filmcat/internal/adapters/loader"
	"github.com/okian/filmcat/internal/adapters/repository"
	"github.com/okian/filmcat/internal/config"
	"github.com/okian/filmcat/internal/domain/query"
	"github.com/okian/filmcat/pkg/logger"
)

// FromConfig builds a Service with the store, pipeline and loader described
// by cfg.
func FromConfig(cfg *config.Config, log logger.Logger, surfaces ...Surface) (*Service, error) {
	if log == nil {
		log = logger.Nop()
	}
	tag, err := cfg.Language()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	return New(
		WithStore(repository.NewCatalogStore()),
		WithPipeline(query.New(
			query.WithLanguage(tag),
			query.WithDescriptionSearch(cfg.SearchDescriptions),
		)),
		WithLoader(loader.FromConfig(cfg, log.Named("loader"))),
		WithSurfaces(surfaces...),
		WithLogger(log.Named("service")),
	), nil
}
