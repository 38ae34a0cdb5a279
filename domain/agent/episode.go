package agent

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// StepRecord captures one executed action.
type StepRecord struct {
	Step          int         `json:"step"`
	Goal          string      `json:"goal"`
	Action        string      `json:"action"`
	Justification string      `json:"justification"`
	Success       bool        `json:"success"`
	Before        world.State `json:"before"`
	After         world.State `json:"after"`
	Timestamp     time.Time   `json:"timestamp"`
}

// Episode is a single plan/act/replan run of the guardian.
// It is the aggregate root for the agent domain.
type Episode struct {
	ID        string       `json:"id"`
	Goal      string       `json:"goal"`
	Phase     Phase        `json:"phase"`
	Plan      plan.Plan    `json:"plan"`
	Start     world.State  `json:"start"`
	World     world.State  `json:"world"`
	Steps     []StepRecord `json:"steps"`
	Step      int          `json:"step"`
	Failures  int          `json:"failures"`
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time,omitempty"`
}

// NewEpisode creates an episode beginning at start.
func NewEpisode(start world.State) *Episode {
	return NewEpisodeWithID(uuid.NewString(), start)
}

// NewEpisodeWithID creates an episode with a caller-chosen ID.
func NewEpisodeWithID(id string, start world.State) *Episode {
	return &Episode{
		ID:        id,
		Phase:     PhaseSelectGoal,
		Start:     start.Clone(),
		World:     start.Clone(),
		Steps:     make([]StepRecord, 0),
		StartTime: time.Now(),
	}
}

// TransitionTo moves the episode to next. Terminal phases stamp EndTime.
func (e *Episode) TransitionTo(next Phase) error {
	if e.Phase.IsTerminal() {
		return ErrEpisodeTerminated
	}
	if !next.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPhase, next)
	}
	if !e.Phase.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Phase, next)
	}
	e.Phase = next
	if next.IsTerminal() {
		e.EndTime = time.Now()
	}
	return nil
}

// Record appends a step. Successful steps replace the current world.
func (e *Episode) Record(r StepRecord) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	e.Steps = append(e.Steps, r)
	if r.Success {
		e.World = r.After.Clone()
	} else {
		e.Failures++
	}
}

// IsTerminal returns true if the episode has finished.
func (e *Episode) IsTerminal() bool {
	return e.Phase.IsTerminal()
}

// Achieved reports whether the episode ended with its goal satisfied.
func (e *Episode) Achieved() bool {
	return e.Phase == PhaseAchieved
}

// Actions returns the names of successfully executed actions in order.
func (e *Episode) Actions() []string {
	var names []string
	for _, s := range e.Steps {
		if s.Success {
			names = append(names, s.Action)
		}
	}
	return names
}

// Duration returns the duration of the episode.
func (e *Episode) Duration() time.Duration {
	if e.EndTime.IsZero() {
		return time.Since(e.StartTime)
	}
	return e.EndTime.Sub(e.StartTime)
}
