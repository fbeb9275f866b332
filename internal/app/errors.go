package service

import "errors"

// Sentinel kinds for controller errors.
var (
	// ErrSuperseded is returned by a load whose result was discarded because
	// a newer load started.
	ErrSuperseded = errors.New("catalog load superseded")
	// ErrNotStarted is returned by Wait before any load was started.
	ErrNotStarted = errors.New("catalog load not started")
	// ErrNoLoader is returned when a load is requested without a loader.
	ErrNoLoader = errors.New("no catalog loader configured")
)
