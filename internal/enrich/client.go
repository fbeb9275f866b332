package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/filmcat/pkg/logger"
)

// maxResponseBytes caps a single TMDb response body.
const maxResponseBytes = 4 << 20

// Candidate is one entry of /movie/popular.
type Candidate struct {
	ID          int     `json:"id"`
	VoteAverage float64 `json:"vote_average"`
}

// Genre is a TMDb genre.
type Genre struct {
	Name string `json:"name"`
}

// Details is the subset of /movie/{id} used to build a film.
type Details struct {
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	Genres        []Genre `json:"genres"`
	IMDbID        string  `json:"imdb_id"`
	PosterPath    string  `json:"poster_path"`
}

// CrewMember is one crew entry of /movie/{id}/credits.
type CrewMember struct {
	Job  string `json:"job"`
	Name string `json:"name"`
}

// Credits is the subset of /movie/{id}/credits used to find the director.
type Credits struct {
	Crew []CrewMember `json:"crew"`
}

// Client talks to the TMDb v3 API.
type Client struct {
	http *http.Client
	cfg  *Config
	log  logger.Logger
}

// NewClient creates a client for cfg. A nil log discards output.
func NewClient(cfg *Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		http: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
		log:  log,
	}
}

// Popular fetches one page of popular films.
func (c *Client) Popular(ctx context.Context, page int) ([]Candidate, error) {
	var resp struct {
		Results []Candidate `json:"results"`
	}
	if err := c.get(ctx, "/movie/popular", url.Values{"page": {strconv.Itoa(page)}}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Details fetches a film's details.
func (c *Client) Details(ctx context.Context, id int) (Details, error) {
	var d Details
	err := c.get(ctx, "/movie/"+strconv.Itoa(id), nil, &d)
	return d, err
}

// Credits fetches a film's cast and crew.
func (c *Client) Credits(ctx context.Context, id int) (Credits, error) {
	var cr Credits
	err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"/credits", nil, &cr)
	return cr, err
}

// get performs a GET with the API key and language and decodes the JSON
// body into v. A 429 is retried after a linearly growing wait; network and
// decoding errors are retried after half that wait. Any other non-200 status
// fails immediately.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	q := url.Values{}
	for k, vals := range params {
		q[k] = vals
	}
	q.Set("api_key", c.cfg.APIKey)
	q.Set("language", c.cfg.Language)
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + q.Encode()

	attempts := max(c.cfg.MaxRetries, 1)
	var lastErr error
	for attempt := range attempts {
		last := attempt == attempts-1

		status, err := c.fetch(ctx, u, v)
		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case status == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%w: %s", ErrRateLimited, path)
			if last {
				return lastErr
			}
			wait := time.Duration(attempt+1) * c.cfg.RetryBackoff
			c.log.Warn(ctx, "tmdb rate limited, retrying", logger.String("path", path), logger.Any("wait", wait))
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		case status != 0:
			return err
		default:
			lastErr = err
			if last {
				return lastErr
			}
			wait := time.Duration(attempt+1) * c.cfg.RetryBackoff / 2
			c.log.Warn(ctx, "tmdb request failed, retrying", logger.String("path", path), logger.Error(err))
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	return lastErr
}

// fetch returns the HTTP status when a response arrived with a non-200
// status, and 0 with the error for transport or decoding failures.
func (c *Client) fetch(ctx context.Context, u string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return resp.StatusCode, fmt.Errorf("%w: %s: %s", ErrRequest, req.URL.Path, resp.Status)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(v); err != nil {
		return 0, fmt.Errorf("%w: decode %s: %w", ErrRequest, req.URL.Path, err)
	}
	return 0, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

