package planner

import (
	"context"
	"fmt"
	"sync"
)

// ScriptStep defines an expected goal and the result to return.
type ScriptStep struct {
	// ExpectGoal asserts the request is for this goal before returning the result.
	ExpectGoal string

	// Result is the result to return.
	Result Result

	// Condition is an optional additional condition that must be true.
	Condition func(Request) bool
}

// ScriptedPlanner replays a predefined sequence for deterministic episode tests.
// It validates that each request names the expected goal.
type ScriptedPlanner struct {
	steps []ScriptStep
	index int
	mu    sync.Mutex
}

// NewScriptedPlanner creates a scripted planner with the given steps.
func NewScriptedPlanner(steps ...ScriptStep) *ScriptedPlanner {
	return &ScriptedPlanner{steps: steps}
}

// Search returns the next scripted result if the request matches expectations.
func (p *ScriptedPlanner) Search(_ context.Context, req Request) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.index >= len(p.steps) {
		return Result{}, ErrScriptExhausted
	}

	step := p.steps[p.index]

	if step.ExpectGoal != "" && step.ExpectGoal != req.GoalName {
		return Result{}, &UnexpectedGoalError{
			Expected:  step.ExpectGoal,
			Actual:    req.GoalName,
			StepIndex: p.index,
		}
	}

	if step.Condition != nil && !step.Condition(req) {
		return Result{}, &ConditionFailedError{
			StepIndex: p.index,
			Goal:      req.GoalName,
		}
	}

	p.index++
	return step.Result, nil
}

// Reset resets the planner to the beginning.
func (p *ScriptedPlanner) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = 0
}

// CurrentStep returns the current step index.
func (p *ScriptedPlanner) CurrentStep() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// IsComplete returns true if all steps have been consumed.
func (p *ScriptedPlanner) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index >= len(p.steps)
}

// UnexpectedGoalError indicates the planner was asked for an unexpected goal.
type UnexpectedGoalError struct {
	Expected  string
	Actual    string
	StepIndex int
}

func (e *UnexpectedGoalError) Error() string {
	return fmt.Sprintf("unexpected goal at step %d: expected %s, got %s", e.StepIndex, e.Expected, e.Actual)
}

// ConditionFailedError indicates a step condition was not met.
type ConditionFailedError struct {
	StepIndex int
	Goal      string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition failed at step %d for goal %s", e.StepIndex, e.Goal)
}

var _ Planner = (*ScriptedPlanner)(nil)
