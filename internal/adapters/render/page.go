package render

import (
	"github.com/okian/filmcat/internal/domain/types"
)

// Messages shown instead of cards.
const (
	MessageNoResults   = "Nenhum filme encontrado com os filtros ou termo de busca selecionados."
	MessageUnavailable = "Não foi possível carregar o catálogo de filmes. Tente novamente mais tarde."
	MessageLoading     = "Carregando filmes..."
)

// SortOption is one entry of the sort selector.
type SortOption struct {
	Key      types.SortKey `json:"key" yaml:"key"`
	Label    string        `json:"label" yaml:"label"`
	Selected bool          `json:"selected" yaml:"selected"`
}

// Page is everything a surface needs to draw one view.
type Page struct {
	Status      types.Status    `json:"status" yaml:"status"`
	Selection   types.Selection `json:"selection" yaml:"selection"`
	SortLabel   string          `json:"sortLabel" yaml:"sortLabel"`
	Categories  []string        `json:"categories" yaml:"categories"`
	SortOptions []SortOption    `json:"sortOptions" yaml:"sortOptions"`
	Cards       []Card          `json:"cards" yaml:"cards"`
	Shown       int             `json:"shown" yaml:"shown"`
	Total       int             `json:"total" yaml:"total"`
	Source      string          `json:"source,omitempty" yaml:"source,omitempty"`
	// Message replaces the card grid when set.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewPage converts a view into a page. The no-results, unavailable and
// loading states each get their own message.
func NewPage(v types.View) Page {
	cards := make([]Card, 0, len(v.Films))
	for _, f := range v.Films {
		cards = append(cards, NewCard(f))
	}

	categories := v.Categories
	if len(categories) == 0 {
		categories = []string{types.AllCategories}
	}

	opts := make([]SortOption, 0, len(types.SortKeys))
	for _, k := range types.SortKeys {
		opts = append(opts, SortOption{Key: k, Label: k.Label(), Selected: k == v.Selection.Sort})
	}

	p := Page{
		Status:      v.Status,
		Selection:   v.Selection,
		SortLabel:   v.Selection.Sort.Label(),
		Categories:  categories,
		SortOptions: opts,
		Cards:       cards,
		Shown:       len(cards),
		Total:       v.Total,
		Source:      v.Source,
		Error:       v.Error,
	}

	switch {
	case v.Status == types.StatusUnavailable:
		p.Message = MessageUnavailable
	case v.Status == types.StatusLoading:
		p.Message = MessageLoading
	case v.Empty():
		p.Message = MessageNoResults
	}
	return p
}
