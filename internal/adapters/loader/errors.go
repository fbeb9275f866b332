package loader

import "errors"

// Sentinel kinds for loader errors.
var (
	// ErrLoadFailure marks a failed fetch from a single source.
	ErrLoadFailure = errors.New("catalog load failed")
	// ErrFallbackFailure marks that the fallback source failed too (or is
	// absent) after the primary failed.
	ErrFallbackFailure = errors.New("catalog fallback failed")
	// ErrBadStatus marks a non-2xx HTTP response.
	ErrBadStatus = errors.New("unexpected http status")
)
