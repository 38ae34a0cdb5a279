// Package planner provides goal-oriented action planners.
package planner

import (
	"context"

	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// DefaultMaxDepth is the dequeue budget used when a request does not set one.
const DefaultMaxDepth = 10

// Request contains all information needed for one search.
type Request struct {
	Start world.State
	Goal  plan.Goal

	// GoalName labels the goal in logs, spans and metrics.
	GoalName string

	// MaxDepth bounds the number of frontier dequeues. Values <= 0 use
	// DefaultMaxDepth.
	MaxDepth int
}

// Stats describes the work a search performed.
type Stats struct {
	// Dequeued counts frontier entries taken, including skipped duplicates.
	Dequeued int
	// Skipped counts dequeued entries whose state was already visited.
	Skipped int
	// Enqueued counts successor entries pushed onto the frontier.
	Enqueued int
	// MaxFrontier is the largest frontier size observed.
	MaxFrontier int
}

// Result is the outcome of a search. Found is false when the frontier
// emptied or the budget ran out; that is not an error.
type Result struct {
	Plan  plan.Plan
	Found bool
	Stats Stats
}

// Planner is the interface for plan searches.
type Planner interface {
	Search(ctx context.Context, req Request) (Result, error)
}

func effectiveDepth(maxDepth int) int {
	if maxDepth <= 0 {
		return DefaultMaxDepth
	}
	return maxDepth
}
