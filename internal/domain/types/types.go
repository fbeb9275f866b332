// Package types contains common types used across the application
package types

import (
	"strings"

	"github.com/okian/filmcat/internal/domain/model"
)

// AllCategories is the category sentinel meaning "no category filter".
const AllCategories = "Todos"

// SortKey selects the order of the derived view.
type SortKey string

// Supported sort keys.
const (
	SortDefault      SortKey = "default"
	SortRatingDesc   SortKey = "rating-desc"
	SortRatingAsc    SortKey = "rating-asc"
	SortYearDesc     SortKey = "year-desc"
	SortYearAsc      SortKey = "year-asc"
	SortAlphabetical SortKey = "alphabetical"
)

// SortKeys lists every key in menu order.
var SortKeys = []SortKey{SortDefault, SortRatingDesc, SortRatingAsc, SortYearDesc, SortYearAsc, SortAlphabetical}

var sortAliases = map[string]SortKey{
	"padrao":         SortDefault,
	"avaliacao-desc": SortRatingDesc,
	"avaliacao-asc":  SortRatingAsc,
	"ano-desc":       SortYearDesc,
	"ano-asc":        SortYearAsc,
	"alfa":           SortAlphabetical,
}

var sortLabels = map[SortKey]string{
	SortDefault:      "Padrão",
	SortRatingDesc:   "Maior avaliação",
	SortRatingAsc:    "Menor avaliação",
	SortYearDesc:     "Mais recentes",
	SortYearAsc:      "Mais antigos",
	SortAlphabetical: "Ordem alfabética",
}

// ParseSortKey resolves s to a known key. Unknown input yields SortDefault
// and false.
func ParseSortKey(s string) (SortKey, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortDefault, true
	}
	k := SortKey(s)
	if k.Valid() {
		return k, true
	}
	if alias, ok := sortAliases[s]; ok {
		return alias, true
	}
	return SortDefault, false
}

// Valid reports whether k is one of SortKeys.
func (k SortKey) Valid() bool {
	_, ok := sortLabels[k]
	return ok
}

// Label is the menu text for k.
func (k SortKey) Label() string {
	if l, ok := sortLabels[k]; ok {
		return l
	}
	return sortLabels[SortDefault]
}

// Selection is the tuple that parameterizes the derived view.
type Selection struct {
	SearchTerm string  `json:"searchTerm" yaml:"searchTerm"`
	Category   string  `json:"category" yaml:"category"`
	Sort       SortKey `json:"sort" yaml:"sort"`
}

// DefaultSelection is the state at startup and after a reset.
func DefaultSelection() Selection {
	return Selection{Category: AllCategories, Sort: SortDefault}
}

// Status describes the catalog lifecycle.
type Status string

// Catalog statuses.
const (
	StatusLoading     Status = "loading"
	StatusReady       Status = "ready"
	StatusUnavailable Status = "unavailable"
)

// View is the derived view handed to renderers. It is recomputed after every
// command and never stored as ground truth.
type View struct {
	Status     Status
	Selection  Selection
	Categories []string
	Films      []model.Film
	// Total is the size of the full dataset.
	Total int
	// Source names the data source the dataset came from.
	Source string
	// Error is set when Status is StatusUnavailable.
	Error string
}

// Empty reports the "no results" case: a loaded catalog whose filters match
// nothing.
func (v View) Empty() bool {
	return v.Status == StatusReady && len(v.Films) == 0
}
