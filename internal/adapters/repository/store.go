// Package repository holds the catalog state: the full dataset and the
// active selection.
package repository

import (
	"github.com/okian/filmcat/internal/domain/model"
	"github.com/okian/filmcat/internal/domain/types"
)

// Store provides read/write access to the catalog state.
type Store interface {
	// Load replaces the full dataset, recomputes the category list and
	// resets the selection to defaults.
	Load(dataset []model.Film) error

	// SetSearchTerm stores the trimmed, lower-cased term.
	SetSearchTerm(term string)
	// SetCategory stores a known category. Unknown values fall back to
	// types.AllCategories and report false.
	SetCategory(category string) bool
	// SetSortKey stores a known key. Unknown keys fall back to the default
	// order and report false.
	SetSortKey(key types.SortKey) bool
	// Reset restores the default selection. The dataset is untouched.
	Reset()

	// Dataset returns the full dataset in load order.
	Dataset() []model.Film
	// Categories returns types.AllCategories followed by the distinct
	// dataset categories.
	Categories() []string
	// Selection returns the active selection.
	Selection() types.Selection
	// Len returns the dataset size.
	Len() int
	// Snapshot returns dataset, categories and selection read together.
	Snapshot() Snapshot
}

// Snapshot is a consistent copy of the catalog state.
type Snapshot struct {
	Dataset    []model.Film
	Categories []string
	Selection  types.Selection
}
