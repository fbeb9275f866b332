package loader

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/okian/filmcat/internal/domain/model"
)

// maxPayloadBytes caps how much of a catalog payload is read.
const maxPayloadBytes = 8 << 20

//go:embed data.json
var embeddedCatalog []byte

// Source yields the full dataset or fails.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Film, error)
}

// HTTPSource fetches the catalog with a GET request.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source for url. A nil client uses http.DefaultClient.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

// Name implements Source.
func (s *HTTPSource) Name() string { return s.url }

// Fetch implements Source. Any non-2xx response is a failure.
func (s *HTTPSource) Fetch(ctx context.Context) ([]model.Film, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	return model.DecodeFilms(io.LimitReader(resp.Body, maxPayloadBytes))
}

// FileSource reads the catalog from a local file.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source.
func (s *FileSource) Name() string { return "file:" + s.path }

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) ([]model.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return model.DecodeFilms(io.LimitReader(f, maxPayloadBytes))
}

// EmbeddedSource serves the catalog compiled into the binary.
type EmbeddedSource struct {
	data []byte
}

// NewEmbeddedSource returns the built-in catalog source.
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{data: embeddedCatalog}
}

// Name implements Source.
func (s *EmbeddedSource) Name() string { return "embedded" }

// Fetch implements Source.
func (s *EmbeddedSource) Fetch(ctx context.Context) ([]model.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return model.DecodeFilms(bytes.NewReader(s.data))
}
