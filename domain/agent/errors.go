package agent

import "errors"

// Domain errors for guardian episodes.
var (
	// ErrInvalidPhase indicates the phase is not a recognized episode phase.
	ErrInvalidPhase = errors.New("invalid phase")

	// ErrInvalidTransition indicates an attempted phase transition is not allowed.
	ErrInvalidTransition = errors.New("invalid phase transition")

	// ErrEpisodeTerminated indicates an operation was attempted on a finished episode.
	ErrEpisodeTerminated = errors.New("episode already terminated")
)
