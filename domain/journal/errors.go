package journal

import "errors"

var (
	// ErrInvalidEntry is returned when an entry lacks an episode ID or type.
	ErrInvalidEntry = errors.New("invalid journal entry")

	// ErrConnectionFailed is returned when the store backend cannot be reached.
	ErrConnectionFailed = errors.New("journal store connection failed")

	// ErrNotQueryable is returned when a store cannot enumerate episodes.
	ErrNotQueryable = errors.New("journal store cannot list episodes")

	// ErrUnknownBackend is returned for an unrecognized journal backend name.
	ErrUnknownBackend = errors.New("unknown journal backend")
)
