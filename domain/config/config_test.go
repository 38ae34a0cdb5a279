package config

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	if cfg.Planner.MaxDepth != 10 {
		t.Errorf("Planner.MaxDepth = %d, want 10", cfg.Planner.MaxDepth)
	}
	if cfg.Episode.MaxSteps != 10 {
		t.Errorf("Episode.MaxSteps = %d, want 10", cfg.Episode.MaxSteps)
	}
	if cfg.Environment.Grid.Width != 5 || cfg.Environment.Grid.Height != 5 {
		t.Errorf("Grid = %+v, want 5x5", cfg.Environment.Grid)
	}
	if cfg.Stress.Duration.Duration() != 120*time.Second {
		t.Errorf("Stress.Duration = %v", cfg.Stress.Duration.Duration())
	}
	if errs := NewValidator().Validate(&cfg); errs.HasErrors() {
		t.Errorf("defaults should validate: %v", errs)
	}
}

func TestDuration_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"seconds", `"2s"`, 2 * time.Second, false},
		{"minutes", `"1m30s"`, 90 * time.Second, false},
		{"null", `null`, 0, false},
		{"invalid", `"soon"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if d.Duration() != tt.want {
				t.Errorf("Duration = %v, want %v", d.Duration(), tt.want)
			}
		})
	}

	out, err := json.Marshal(Duration(1500 * time.Millisecond))
	if err != nil || string(out) != `"1.5s"` {
		t.Errorf("Marshal() = %s, %v", out, err)
	}
}

func TestDuration_YAML(t *testing.T) {
	t.Parallel()

	var s StressConfig
	if err := yaml.Unmarshal([]byte("duration: 30s\ninterval: 500ms\n"), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.Duration.Duration() != 30*time.Second || s.Interval.Duration() != 500*time.Millisecond {
		t.Errorf("StressConfig = %+v", s)
	}

	if err := yaml.Unmarshal([]byte("duration: later\n"), &s); err == nil {
		t.Error("expected an error for an invalid duration")
	}
}
