package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/okian/filmcat/internal/domain/types"
)

// Format names an output format.
type Format string

// Supported formats.
const (
	FormatHTML  Format = "html"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Renderer writes a view to w.
type Renderer interface {
	Render(w io.Writer, v types.View) error
}

// RendererFunc allows functions to implement Renderer.
type RendererFunc func(io.Writer, types.View) error

// Render implements Renderer.
func (f RendererFunc) Render(w io.Writer, v types.View) error {
	return f(w, v)
}

// ParseFormat converts s to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatHTML, FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat returns explicit when set, otherwise table for terminals and
// JSON for pipes and redirects.
func DetectFormat(explicit string, out *os.File) Format {
	if explicit != "" {
		return Format(strings.ToLower(strings.TrimSpace(explicit)))
	}
	if out != nil && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())) {
		return FormatTable
	}
	return FormatJSON
}

// NewRenderer returns the renderer for format.
func NewRenderer(format Format) (Renderer, error) {
	switch format {
	case FormatHTML:
		return NewHTMLRenderer(), nil
	case FormatTable:
		return &TableRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{Indent: "  "}, nil
	case FormatYAML:
		return &YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var cardTemplates = template.Must(template.New("render").Funcs(template.FuncMap{
	"posterPlaceholder": func() string { return PosterPlaceholder },
	"detailHint":        func() string { return DetailHint },
}).ParseFS(templateFS, "templates/*.tmpl"))

// HTMLRenderer writes the card grid as an HTML fragment. Values are escaped
// by html/template.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{tmpl: cardTemplates}
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(w io.Writer, v types.View) error {
	return r.tmpl.ExecuteTemplate(w, "cards", NewPage(v))
}

// TableRenderer writes a summary line and a film table for terminals.
type TableRenderer struct{}

// Render implements Renderer.
func (r *TableRenderer) Render(w io.Writer, v types.View) error {
	p := NewPage(v)

	term := p.Selection.SearchTerm
	if term == "" {
		term = "-"
	}
	if _, err := fmt.Fprintf(w, "Categoria: %s | Ordenação: %s | Busca: %s | %d de %d filmes\n",
		p.Selection.Category, p.SortLabel, term, p.Shown, p.Total); err != nil {
		return err
	}

	if p.Message != "" {
		_, err := fmt.Fprintln(w, p.Message)
		return err
	}

	table := tablewriter.NewTable(w)
	table.Header("#", "Título", "Ano", "Categoria", "Avaliação", "Diretor", "Pôster")
	for i, c := range p.Cards {
		poster := c.PosterURL
		if poster == "" {
			poster = PosterPlaceholder
		}
		if err := table.Append(
			strconv.Itoa(i+1),
			c.Title,
			strconv.Itoa(c.Year),
			c.Category,
			c.Stars+" "+c.RatingLabel,
			c.Director,
			poster,
		); err != nil {
			return err
		}
	}
	return table.Render()
}

// JSONRenderer writes the page as JSON.
type JSONRenderer struct {
	Indent string
}

// Render implements Renderer.
func (r *JSONRenderer) Render(w io.Writer, v types.View) error {
	enc := json.NewEncoder(w)
	if r.Indent != "" {
		enc.SetIndent("", r.Indent)
	}
	return enc.Encode(NewPage(v))
}

// YAMLRenderer writes the page as YAML.
type YAMLRenderer struct{}

// Render implements Renderer.
func (r *YAMLRenderer) Render(w io.Writer, v types.View) error {
	out, err := yaml.MarshalWithOptions(NewPage(v),
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
