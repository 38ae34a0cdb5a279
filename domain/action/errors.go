package action

import "errors"

// Domain errors for action definitions.
var (
	// ErrEmptyName is returned when an action has no name.
	ErrEmptyName = errors.New("action name is required")

	// ErrInvalidCost is returned when an action cost is below 1.
	ErrInvalidCost = errors.New("action cost must be at least 1")

	// ErrInvalidRequirement is returned when a precondition cannot be parsed,
	// such as a relational bound that is not an integer.
	ErrInvalidRequirement = errors.New("invalid precondition requirement")

	// ErrInvalidEffect is returned when an effect has neither a literal nor a derivation.
	ErrInvalidEffect = errors.New("invalid effect")

	// ErrDuplicateAction is returned when a catalog contains two actions with the same name.
	ErrDuplicateAction = errors.New("duplicate action")
)
