package enrich

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMissingAPIKey = errors.New("TMDB_API_KEY is not set")
	ErrRequest       = errors.New("tmdb request failed")
	ErrRateLimited   = errors.New("tmdb rate limit exceeded")
	ErrNoCandidates  = errors.New("no candidate films returned by tmdb")
)
