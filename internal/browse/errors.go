package browse

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrRemote         = errors.New("remote request failed")
)
