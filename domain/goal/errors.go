package goal

import "errors"

// ErrUnknownGoal is returned when a goal name does not match a built-in goal.
var ErrUnknownGoal = errors.New("unknown goal")
