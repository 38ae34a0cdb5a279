package journal

import (
	"time"

	"github.com/felixgeelhaar/goap-go/domain/agent"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// Type classifies journal entries.
type Type string

const (
	TypeEpisodeStarted    Type = "episode.started"
	TypeEpisodeFinished   Type = "episode.finished"
	TypePhaseTransitioned Type = "phase.transitioned"
	TypeGoalSelected      Type = "goal.selected"
	TypePlanFound         Type = "plan.found"
	TypePlanNotFound      Type = "plan.not_found"
	TypeActionSucceeded   Type = "action.succeeded"
	TypeActionFailed      Type = "action.failed"
)

// EpisodeStartedPayload contains data for episode.started entries.
type EpisodeStartedPayload struct {
	Start    world.State `json:"start"`
	MaxSteps int         `json:"max_steps"`
}

// EpisodeFinishedPayload contains data for episode.finished entries.
type EpisodeFinishedPayload struct {
	Outcome  agent.Phase   `json:"outcome"`
	Goal     string        `json:"goal"`
	Steps    int           `json:"steps"`
	Failures int           `json:"failures"`
	World    world.State   `json:"world"`
	Duration time.Duration `json:"duration"`
}

// PhaseTransitionedPayload contains data for phase.transitioned entries.
type PhaseTransitionedPayload struct {
	From   agent.Phase `json:"from"`
	To     agent.Phase `json:"to"`
	Reason string      `json:"reason,omitempty"`
}

// GoalSelectedPayload contains data for goal.selected entries.
type GoalSelectedPayload struct {
	Goal  string      `json:"goal"`
	World world.State `json:"world"`
}

// PlanPayload contains data for plan.found and plan.not_found entries.
type PlanPayload struct {
	Goal     string    `json:"goal"`
	Plan     plan.Plan `json:"plan,omitempty"`
	Dequeued int       `json:"dequeued"`
}

// ActionPayload contains data for action.succeeded and action.failed entries.
type ActionPayload struct {
	Action        string      `json:"action"`
	Goal          string      `json:"goal"`
	Justification string      `json:"justification"`
	Before        world.State `json:"before"`
	After         world.State `json:"after,omitempty"`
}
