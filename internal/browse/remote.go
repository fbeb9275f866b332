package browse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/filmcat/internal/adapters/render"
)

// RemoteBackend drives a running filmcat server over its HTTP API. Views
// are rendered by the server in the requested format.
type RemoteBackend struct {
	base   string
	format render.Format
	out    io.Writer
	client *http.Client
}

// NewRemoteBackend creates a backend for the server at baseURL.
func NewRemoteBackend(baseURL string, format render.Format, out io.Writer, timeout time.Duration) *RemoteBackend {
	return &RemoteBackend{
		base:   strings.TrimRight(baseURL, "/"),
		format: format,
		out:    out,
		client: &http.Client{Timeout: timeout},
	}
}

// Do sends cmd to the matching API endpoint.
func (b *RemoteBackend) Do(ctx context.Context, cmd Command) error {
	var (
		path string
		body any
	)
	switch cmd.Name {
	case CmdSearch:
		path, body = "/api/search", map[string]string{"term": cmd.Arg}
	case CmdClear:
		path = "/api/search/clear"
	case CmdCategory:
		path, body = "/api/category", map[string]string{"category": cmd.Arg}
	case CmdSort:
		path, body = "/api/sort", map[string]string{"sort": cmd.Arg}
	case CmdReset:
		path = "/api/reset"
	case CmdReload:
		path = "/api/reload"
	default:
		return nil
	}

	resp, err := b.post(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Show fetches the current view rendered by the server and copies it out.
func (b *RemoteBackend) Show(ctx context.Context) error {
	resp, err := b.get(ctx, "/api/view?format="+url.QueryEscape(string(b.format)))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = io.Copy(b.out, resp.Body)
	return err
}

// Categories fetches the category menu.
func (b *RemoteBackend) Categories(ctx context.Context) ([]string, error) {
	resp, err := b.get(ctx, "/api/categories")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode categories: %w", ErrRemote, err)
	}
	return payload.Categories, nil
}

// Close releases idle connections.
func (b *RemoteBackend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

func (b *RemoteBackend) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemote, err)
	}
	return b.do(req)
}

// post sends body as JSON. A nil body sends an empty request body.
func (b *RemoteBackend) post(ctx context.Context, path string, body any) (*http.Response, error) {
	var rd io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal request body: %w", ErrRemote, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.base+path, rd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

// do performs req and turns non-2xx responses into errors carrying the
// server's message.
func (b *RemoteBackend) do(req *http.Request) (*http.Response, error) {
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRemote, req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	var apiErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	msg := resp.Status
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr); err == nil && apiErr.Message != "" {
		msg = apiErr.Code + ": " + apiErr.Message
	}
	return nil, fmt.Errorf("%w: %s %s: %s", ErrRemote, req.Method, req.URL.Path, msg)
}
