package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mutate       func(*GuardianConfig)
		wantErrPaths []string
	}{
		{
			name:   "defaults",
			mutate: func(*GuardianConfig) {},
		},
		{
			name: "missing name and version",
			mutate: func(c *GuardianConfig) {
				c.Name = ""
				c.Version = ""
			},
			wantErrPaths: []string{"name", "version"},
		},
		{
			name: "negative budgets",
			mutate: func(c *GuardianConfig) {
				c.Planner.MaxDepth = -1
				c.Episode.MaxSteps = -1
				c.Episode.MaxFailures = -2
				c.Batch.MaxConcurrent = -3
			},
			wantErrPaths: []string{"planner.max_depth", "episode.max_steps", "episode.max_failures", "batch.max_concurrent"},
		},
		{
			name: "failure chances out of range",
			mutate: func(c *GuardianConfig) {
				c.Environment.FailureChances = map[string]float64{"Retreat": 1.5, "HealSelf": -0.1, "AttackEnemy": 0.3}
			},
			wantErrPaths: []string{"environment.failure_chances.HealSelf", "environment.failure_chances.Retreat"},
		},
		{
			name: "negative grid",
			mutate: func(c *GuardianConfig) {
				c.Environment.Grid = GridConfig{Width: -1, Height: -1}
			},
			wantErrPaths: []string{"environment.grid.width", "environment.grid.height"},
		},
		{
			name: "bad logging",
			mutate: func(c *GuardianConfig) {
				c.Logging = LoggingConfig{Level: "loud", Format: "xml"}
			},
			wantErrPaths: []string{"logging.level", "logging.format"},
		},
		{
			name: "uppercase level accepted",
			mutate: func(c *GuardianConfig) {
				c.Logging.Level = "DEBUG"
			},
		},
		{
			name: "bad journal",
			mutate: func(c *GuardianConfig) {
				c.Journal = JournalConfig{Backend: "cassandra", Retry: RetryConfig{MaxAttempts: -1, Multiplier: 0.5}}
			},
			wantErrPaths: []string{"journal.backend", "journal.retry.max_attempts", "journal.retry.multiplier"},
		},
		{
			name: "badger needs a dir",
			mutate: func(c *GuardianConfig) {
				c.Journal.Backend = "badger"
			},
			wantErrPaths: []string{"journal.dir"},
		},
		{
			name: "postgres needs a dsn",
			mutate: func(c *GuardianConfig) {
				c.Journal.Backend = "postgres"
			},
			wantErrPaths: []string{"journal.dsn"},
		},
		{
			name: "redis with url",
			mutate: func(c *GuardianConfig) {
				c.Journal = JournalConfig{Backend: "redis", DSN: "redis://localhost:6379/0"}
			},
		},
		{
			name: "tracing disabled skips checks",
			mutate: func(c *GuardianConfig) {
				c.Telemetry.Tracing = TracingConfig{Exporter: "carrier-pigeon", SampleRate: 7}
			},
		},
		{
			name: "tracing enabled",
			mutate: func(c *GuardianConfig) {
				c.Telemetry.Tracing = TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 2}
			},
			wantErrPaths: []string{"telemetry.tracing.endpoint", "telemetry.tracing.sample_rate"},
		},
		{
			name: "stress chances",
			mutate: func(c *GuardianConfig) {
				c.Stress.DisableChance = 2
				c.Stress.RestoreChance = -1
				c.Stress.Interval = -1
			},
			wantErrPaths: []string{"stress.interval", "stress.disable_chance", "stress.restore_chance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Defaults()
			tt.mutate(&cfg)

			errs := NewValidator().Validate(&cfg)
			var got []string
			if errs.HasErrors() {
				got = errs.Paths()
			}
			if diff := cmp.Diff(tt.wantErrPaths, got); diff != "" {
				t.Errorf("error paths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	if got := (ValidationErrors{}).Error(); got != "no validation errors" {
		t.Errorf("empty Error() = %q", got)
	}

	one := ValidationErrors{{Path: "name", Message: "name is required"}}
	if got := one.Error(); got != "name: name is required" {
		t.Errorf("single Error() = %q", got)
	}

	two := append(one, ValidationError{Message: "boom"})
	got := two.Error()
	if !strings.HasPrefix(got, "2 validation errors:") || !strings.Contains(got, "  - boom") {
		t.Errorf("multi Error() = %q", got)
	}
}
