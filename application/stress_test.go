package application

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/goap-go/domain/action"
	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/planner"
)

// constSource always returns the same roll.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func TestDefaultStressOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultStressOptions()
	if opts.DisableChance != 0.5 || opts.RestoreChance != 0.23 {
		t.Errorf("chances = %v / %v", opts.DisableChance, opts.RestoreChance)
	}
}

func TestRunner_Stress(t *testing.T) {
	t.Parallel()

	// A roll of 0.3 always picks Retreat, the third catalog action.
	tests := []struct {
		name    string
		disable float64
		restore float64
		want    []string
	}{
		{
			name: "never disabled",
			want: []string{dungeon.Retreat},
		},
		{
			name:    "disabled and stuck",
			disable: 0.5,
			restore: 0.1,
			want:    []string{dungeon.Retreat, StressDisabled},
		},
		{
			name:    "disabled then restored",
			disable: 0.5,
			restore: 1,
			want:    []string{dungeon.Retreat, StressDisabled, StressRestored},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := New(WithPlanner(planner.NewMockPlanner()), WithEnvironment(&scriptedEnv{}))
			if err != nil {
				t.Fatal(err)
			}

			report := r.Stress(context.Background(), dungeon.DefaultStart(), StressOptions{
				DisableChance: tt.disable,
				RestoreChance: tt.restore,
				MaxTicks:      3,
				Source:        constSource(0.3),
			})

			if report.Ticks != 3 {
				t.Errorf("Ticks = %d, want 3", report.Ticks)
			}
			if diff := cmp.Diff(tt.want, report.History); diff != "" {
				t.Errorf("History mismatch (-want +got):\n%s", diff)
			}
			if report.Final.Bool(dungeon.FactEnemyNearby) {
				t.Error("Retreat should have cleared the enemy")
			}
		})
	}
}

func TestRunner_Stress_StopsOnCancel(t *testing.T) {
	t.Parallel()

	r, err := New(WithPlanner(planner.NewMockPlanner()), WithEnvironment(&scriptedEnv{}))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := r.Stress(ctx, dungeon.DefaultStart(), DefaultStressOptions())
	if report.Ticks != 0 || len(report.History) != 0 {
		t.Errorf("cancelled stress run = %+v", report)
	}
}

func TestRunner_Stress_RestoredTickActs(t *testing.T) {
	t.Parallel()

	cat, err := action.NewCatalog(action.MustNew("Patrol", nil,
		action.Effects{"patrolled": action.Set(world.Bool(true))}, 1))
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(WithPlanner(planner.NewMockPlanner()), WithEnvironment(&scriptedEnv{}), WithCatalog(cat))
	if err != nil {
		t.Fatal(err)
	}

	report := r.Stress(context.Background(), world.State{}, StressOptions{
		DisableChance: 0.5,
		RestoreChance: 1,
		MaxTicks:      2,
		Source:        constSource(0.3),
	})

	want := []string{"Patrol", StressDisabled, StressRestored, "Patrol", StressDisabled}
	if diff := cmp.Diff(want, report.History); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}
}
