package repository

import "errors"

// Sentinel kinds for catalog store errors.
var (
	ErrMalformedDataset = errors.New("malformed dataset")
)
