package world

import "errors"

// Domain errors for world state values.
var (
	// ErrUnsupportedValue indicates a decoded value is not a bool, integer or string.
	ErrUnsupportedValue = errors.New("unsupported fact value")
)
