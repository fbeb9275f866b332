package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/filmcat/internal/adapters/loader"
	"github.com/okian/filmcat/internal/adapters/render"
	service "github.com/okian/filmcat/internal/app"
	"github.com/okian/filmcat/pkg/logger"
)

// maxBodyBytes bounds command request bodies.
const maxBodyBytes = 1 << 16

// CatalogHandler serves catalog reads and commands. Every response carries
// the recomputed page.
type CatalogHandler struct {
	deps Dependencies
	html *render.HTMLRenderer
	log  logger.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies, log logger.Logger) *CatalogHandler {
	return &CatalogHandler{deps: deps, html: render.NewHTMLRenderer(), log: log}
}

// HandleView handles GET /api/view. The optional format query parameter
// selects json (default), yaml, table or html.
func (h *CatalogHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	const op = "api.view"
	if !allowMethod(w, r, op, http.MethodGet) {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" || format == string(render.FormatJSON) {
		writeJSON(w, http.StatusOK, render.NewPage(h.deps.View()))
		return
	}

	f, err := render.ParseFormat(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	renderer, err := render.NewRenderer(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, h.deps.View()); err != nil {
		h.log.Error(r.Context(), "render failed", logger.String("format", format), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", contentType(f))
	_, _ = buf.WriteTo(w)
}

// HandleCategories handles GET /api/categories.
func (h *CatalogHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, "api.categories", http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.deps.Categories()})
}

// HandleFilms handles GET /api/films?q=&category=&sort=. It does not touch
// the active selection.
func (h *CatalogHandler) HandleFilms(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, "api.films", http.MethodGet) {
		return
	}
	q := r.URL.Query()
	v := h.deps.Query(q.Get("q"), q.Get("category"), q.Get("sort"))
	writeJSON(w, http.StatusOK, render.NewPage(v))
}

// HandleSearch handles POST /api/search.
func (h *CatalogHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}
	var req searchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, render.NewPage(h.deps.Search(r.Context(), req.Term)))
}

// HandleClearSearch handles POST /api/search/clear.
func (h *CatalogHandler) HandleClearSearch(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, "api.search_clear", http.MethodPost) {
		return
	}
	writeJSON(w, http.StatusOK, render.NewPage(h.deps.ClearSearch(r.Context())))
}

// HandleCategory handles POST /api/category. Unknown categories are coerced
// to all categories, never rejected.
func (h *CatalogHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	const op = "api.category"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}
	var req categoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, render.NewPage(h.deps.SelectCategory(r.Context(), req.Category)))
}

// HandleSort handles POST /api/sort. Unknown keys are coerced to the
// default order, never rejected.
func (h *CatalogHandler) HandleSort(w http.ResponseWriter, r *http.Request) {
	const op = "api.sort"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}
	var req sortRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, render.NewPage(h.deps.SelectSort(r.Context(), req.Sort)))
}

// HandleReset handles POST /api/reset.
func (h *CatalogHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, "api.reset", http.MethodPost) {
		return
	}
	writeJSON(w, http.StatusOK, render.NewPage(h.deps.Reset(r.Context())))
}

// HandleReload handles POST /api/reload.
func (h *CatalogHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	if !allowMethod(w, r, op, http.MethodPost) {
		return
	}

	v, err := h.deps.Reload(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, render.NewPage(v))
	case errors.Is(err, service.ErrSuperseded):
		writeError(w, http.StatusConflict, "superseded", WrapKind(op, ErrConflict, err))
	case errors.Is(err, loader.ErrFallbackFailure), errors.Is(err, service.ErrNoLoader):
		writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// HandleCards handles GET /cards with the current view as an HTML fragment.
func (h *CatalogHandler) HandleCards(w http.ResponseWriter, r *http.Request) {
	const op = "api.cards"
	if !allowMethod(w, r, op, http.MethodGet) {
		return
	}

	var buf bytes.Buffer
	if err := h.html.Render(&buf, h.deps.View()); err != nil {
		h.log.Error(r.Context(), "render cards failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func contentType(f render.Format) string {
	switch f {
	case render.FormatHTML:
		return "text/html; charset=utf-8"
	case render.FormatYAML:
		return "application/yaml; charset=utf-8"
	case render.FormatTable:
		return "text/plain; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}
