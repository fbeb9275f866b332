// Package query derives the displayed film sequence from the full dataset and
// the current selection.
//
// The pipeline always runs in the same order: category filter, search filter,
// stable sort. Filtering keeps the original relative order, so the default
// sort is simply the filtered subsequence.
package query

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/filmcat/internal/domain/model"
	"github.com/okian/filmcat/internal/domain/types"
)

// DefaultLanguage drives alphabetical collation when none is configured.
var DefaultLanguage = language.BrazilianPortuguese

// Pipeline holds the knobs of the query. The zero value is not usable; use New.
type Pipeline struct {
	lang               language.Tag
	searchDescriptions bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLanguage sets the collation language for alphabetical sorting.
func WithLanguage(tag language.Tag) Option {
	return func(p *Pipeline) {
		if tag != language.Und {
			p.lang = tag
		}
	}
}

// WithDescriptionSearch makes the search term also match descriptions.
func WithDescriptionSearch(enabled bool) Option {
	return func(p *Pipeline) {
		p.searchDescriptions = enabled
	}
}

// New builds a Pipeline. Defaults: Brazilian Portuguese collation, title-only
// search.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{lang: DefaultLanguage}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultPipeline = New()

// Compute runs the default pipeline.
func Compute(dataset []model.Film, sel types.Selection) []model.Film {
	return defaultPipeline.Compute(dataset, sel)
}

// Compute returns the ordered records to display. dataset is never modified.
// The search term is expected already normalized; it is lower-cased again so
// raw input behaves the same.
func (p *Pipeline) Compute(dataset []model.Film, sel types.Selection) []model.Film {
	term := strings.ToLower(strings.TrimSpace(sel.SearchTerm))
	category := sel.Category
	if category == "" {
		category = types.AllCategories
	}

	out := make([]model.Film, 0, len(dataset))
	for _, f := range dataset {
		if category != types.AllCategories && f.Category != category {
			continue
		}
		if term != "" && !p.matches(f, term) {
			continue
		}
		out = append(out, f)
	}

	p.sort(out, sel.Sort)
	return out
}

func (p *Pipeline) matches(f model.Film, term string) bool {
	if strings.Contains(strings.ToLower(f.Title), term) {
		return true
	}
	return p.searchDescriptions && strings.Contains(strings.ToLower(f.Description), term)
}

func (p *Pipeline) sort(films []model.Film, key types.SortKey) {
	switch key {
	case types.SortRatingDesc:
		slices.SortStableFunc(films, func(a, b model.Film) int { return cmp.Compare(b.Rating, a.Rating) })
	case types.SortRatingAsc:
		slices.SortStableFunc(films, func(a, b model.Film) int { return cmp.Compare(a.Rating, b.Rating) })
	case types.SortYearDesc:
		slices.SortStableFunc(films, func(a, b model.Film) int { return cmp.Compare(b.Year, a.Year) })
	case types.SortYearAsc:
		slices.SortStableFunc(films, func(a, b model.Film) int { return cmp.Compare(a.Year, b.Year) })
	case types.SortAlphabetical:
		// Collators keep internal buffers and are not safe to share.
		c := collate.New(p.lang)
		slices.SortStableFunc(films, func(a, b model.Film) int { return c.CompareString(a.Title, b.Title) })
	default:
		// Filtering already preserved dataset order.
	}
}
