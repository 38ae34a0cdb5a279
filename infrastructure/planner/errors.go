package planner

import "errors"

var (
	// ErrNilGoal is returned when a search is requested without a goal predicate.
	ErrNilGoal = errors.New("goal predicate is required")

	// ErrScriptExhausted is returned by ScriptedPlanner when no steps remain.
	ErrScriptExhausted = errors.New("script exhausted")
)
