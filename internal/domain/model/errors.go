package model

import "errors"

// Sentinel kinds for decoding errors.
var (
	ErrMalformedPayload = errors.New("malformed film payload")
)
