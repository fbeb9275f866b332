package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/filmcat/internal/domain/model"
	"github.com/okian/filmcat/pkg/logger"
)

// Catalog is the TMDb surface the enricher needs.
type Catalog interface {
	Popular(ctx context.Context, page int) ([]Candidate, error)
	Details(ctx context.Context, id int) (Details, error)
	Credits(ctx context.Context, id int) (Credits, error)
}

// Report summarizes one run.
type Report struct {
	Placeholders int
	Candidates   int
	Replaced     int
	BackupPath   string
}

// Enricher replaces placeholder entries of a catalog file with popular
// films from TMDb.
type Enricher struct {
	tmdb Catalog
	cfg  *Config
	log  logger.Logger
}

// New creates an Enricher. A nil log discards output.
func New(tmdb Catalog, cfg *Config, log logger.Logger) *Enricher {
	if log == nil {
		log = logger.Nop()
	}
	return &Enricher{tmdb: tmdb, cfg: cfg, log: log}
}

// Run enriches the catalog file at path. The untouched file is copied to
// path+BackupSuffix before path is rewritten. Without placeholders nothing
// is fetched or written.
func (e *Enricher) Run(ctx context.Context, path string) (Report, error) {
	var rep Report

	original, err := os.ReadFile(path)
	if err != nil {
		return rep, fmt.Errorf("read catalog: %w", err)
	}
	films, err := model.DecodeFilms(bytes.NewReader(original))
	if err != nil {
		return rep, fmt.Errorf("decode catalog: %w", err)
	}

	idx := PlaceholderIndexes(films)
	rep.Placeholders = len(idx)
	e.log.Info(ctx, "placeholders found", logger.Int("count", len(idx)))
	if len(idx) == 0 {
		return rep, nil
	}

	candidates := e.candidates(ctx, len(idx))
	rep.Candidates = len(candidates)
	if len(candidates) == 0 {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		return rep, ErrNoCandidates
	}

	next := 0
	for _, i := range idx {
		f, ok := e.nextFilm(ctx, candidates, &next)
		if !ok {
			break
		}
		films[i] = f
		rep.Replaced++
		if err := sleep(ctx, e.cfg.DetailDelay); err != nil {
			return rep, err
		}
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	rep.BackupPath = path + BackupSuffix
	if err := os.WriteFile(rep.BackupPath, original, 0o644); err != nil {
		// The rewrite still goes ahead without a backup.
		e.log.Warn(ctx, "could not write backup", logger.String("path", rep.BackupPath), logger.Error(err))
		rep.BackupPath = ""
	}

	out, err := encodeFilms(films)
	if err != nil {
		return rep, err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return rep, fmt.Errorf("write catalog: %w", err)
	}

	e.log.Info(ctx, "catalog enriched",
		logger.Int("replaced", rep.Replaced),
		logger.Int("placeholders", rep.Placeholders),
		logger.String("backup", rep.BackupPath),
	)
	return rep, nil
}

// candidates fetches popular pages until there are at least want entries,
// MaxPages is reached or a page fails.
func (e *Enricher) candidates(ctx context.Context, want int) []Candidate {
	var out []Candidate
	for page := 1; len(out) < want && page <= e.cfg.MaxPages; page++ {
		results, err := e.tmdb.Popular(ctx, page)
		if err != nil {
			e.log.Warn(ctx, "popular page failed", logger.Int("page", page), logger.Error(err))
			break
		}
		out = append(out, results...)
		if err := sleep(ctx, e.cfg.PageDelay); err != nil {
			break
		}
	}
	return out
}

// nextFilm consumes candidates from *next until one yields details. Missing
// credits only leave the director empty.
func (e *Enricher) nextFilm(ctx context.Context, candidates []Candidate, next *int) (model.Film, bool) {
	for *next < len(candidates) {
		c := candidates[*next]
		*next++
		if c.ID == 0 {
			continue
		}

		d, err := e.tmdb.Details(ctx, c.ID)
		if err != nil {
			if ctx.Err() != nil {
				return model.Film{}, false
			}
			e.log.Warn(ctx, "details failed, skipping candidate", logger.Int("id", c.ID), logger.Error(err))
			continue
		}
		cr, err := e.tmdb.Credits(ctx, c.ID)
		if err != nil {
			e.log.Warn(ctx, "credits failed", logger.Int("id", c.ID), logger.Error(err))
			cr = Credits{}
		}
		return BuildFilm(d, cr, c.VoteAverage), true
	}
	return model.Film{}, false
}

// encodeFilms writes films as indented JSON without escaping HTML
// characters.
func encodeFilms(films []model.Film) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(films); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}
