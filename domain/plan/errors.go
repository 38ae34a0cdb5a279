package plan

import "errors"

// Domain errors for plan simulation.
var (
	// ErrUnknownAction is returned when a plan names an action missing from the catalog.
	ErrUnknownAction = errors.New("unknown action in plan")

	// ErrNotApplicable is returned when a plan step's preconditions do not hold.
	ErrNotApplicable = errors.New("plan step not applicable")
)
