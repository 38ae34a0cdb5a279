package catalog

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/goap-go/domain/goal"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

func TestBundle_ResolveGoal(t *testing.T) {
	t.Parallel()

	b := Default()
	b.Goals["Rested"] = func(s world.State) bool { return s.Int("stamina") >= 10 }

	start := world.State{
		"health":      world.Int(20),
		"stamina":     world.Int(10),
		"enemyNearby": world.Bool(true),
	}

	tests := []struct {
		name     string
		goal     string
		expr     string
		wantName string
		wantSat  bool
	}{
		{name: "heuristic", wantName: string(goal.Survive), wantSat: false},
		{name: "built-in case insensitive", goal: "eliminatethreat", wantName: string(goal.EliminateThreat), wantSat: false},
		{name: "bundle goal", goal: "Rested", wantName: "Rested", wantSat: true},
		{name: "expression", expr: "health < 30", wantName: "health < 30", wantSat: true},
		{name: "expression wins", goal: "Rested", expr: "enemyNearby == false", wantName: "enemyNearby == false", wantSat: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			name, g, err := b.ResolveGoal(start, tt.goal, tt.expr)
			if err != nil {
				t.Fatalf("ResolveGoal() error = %v", err)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if got := g(start); got != tt.wantSat {
				t.Errorf("satisfied = %v, want %v", got, tt.wantSat)
			}
		})
	}
}

func TestBundle_ResolveGoalErrors(t *testing.T) {
	t.Parallel()

	b := Default()
	if _, _, err := b.ResolveGoal(world.State{}, "Dance", ""); !errors.Is(err, goal.ErrUnknownGoal) {
		t.Errorf("unknown goal error = %v", err)
	}
	if _, _, err := b.ResolveGoal(world.State{}, "", "health >="); !errors.Is(err, ErrInvalidExpression) {
		t.Errorf("bad expression error = %v", err)
	}
}
