// Package config provides the domain model for guardian configuration.
package config

import "time"

// GuardianConfig is the complete guardian configuration.
type GuardianConfig struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Planner     PlannerConfig     `json:"planner,omitempty" yaml:"planner,omitempty"`
	Episode     EpisodeConfig     `json:"episode,omitempty" yaml:"episode,omitempty"`
	Catalog     CatalogConfig     `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Environment EnvironmentConfig `json:"environment,omitempty" yaml:"environment,omitempty"`
	Logging     LoggingConfig     `json:"logging,omitempty" yaml:"logging,omitempty"`
	Journal     JournalConfig     `json:"journal,omitempty" yaml:"journal,omitempty"`
	Telemetry   TelemetryConfig   `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
	Batch       BatchConfig       `json:"batch,omitempty" yaml:"batch,omitempty"`
	Stress      StressConfig      `json:"stress,omitempty" yaml:"stress,omitempty"`
}

// PlannerConfig configures the BFS planner.
type PlannerConfig struct {
	// MaxDepth is the dequeue budget per search. Zero means the planner default.
	MaxDepth int `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
}

// EpisodeConfig configures the plan/act loop.
type EpisodeConfig struct {
	// MaxSteps caps successful actions per episode.
	MaxSteps int `json:"max_steps,omitempty" yaml:"max_steps,omitempty"`

	// MaxFailures caps failed actions per episode.
	MaxFailures int `json:"max_failures,omitempty" yaml:"max_failures,omitempty"`
}

// CatalogConfig locates the action catalog.
type CatalogConfig struct {
	// Path is an INI preconditions file or a YAML/JSON catalog.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Watch reloads the catalog when the file changes.
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// EnvironmentConfig configures the simulated dungeon.
type EnvironmentConfig struct {
	// FailureChances overrides per-action failure probabilities.
	FailureChances map[string]float64 `json:"failure_chances,omitempty" yaml:"failure_chances,omitempty"`

	// Seed makes outcomes reproducible. Zero seeds randomly.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	Grid GridConfig `json:"grid,omitempty" yaml:"grid,omitempty"`
}

// GridConfig sizes the dungeon grid.
type GridConfig struct {
	Width  int `json:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is json or console.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// JournalConfig selects the episode journal backend.
type JournalConfig struct {
	// Backend is none, memory, sqlite, badger, postgres, redis or mongodb.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// DSN is the SQLite data source name, or the connection string or URL
	// of a network backend.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// Dir is the Badger data directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	Retry RetryConfig `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// RetryConfig configures retry behavior for journal writes.
type RetryConfig struct {
	MaxAttempts  int      `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	InitialDelay Duration `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty"`
	Multiplier   float64  `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
}

// TelemetryConfig configures OpenTelemetry.
type TelemetryConfig struct {
	Metrics bool          `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Exporter is otlp, stdout or noop.
	Exporter    string  `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	Endpoint    string  `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Insecure    bool    `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	SampleRate  float64 `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	Environment string  `json:"environment,omitempty" yaml:"environment,omitempty"`
}

// BatchConfig configures scenario batches.
type BatchConfig struct {
	// MaxConcurrent bounds episodes running at once.
	MaxConcurrent int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty"`
}

// StressConfig configures the random-action diagnostic mode.
type StressConfig struct {
	Duration      Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	Interval      Duration `json:"interval,omitempty" yaml:"interval,omitempty"`
	DisableChance float64  `json:"disable_chance,omitempty" yaml:"disable_chance,omitempty"`
	RestoreChance float64  `json:"restore_chance,omitempty" yaml:"restore_chance,omitempty"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() GuardianConfig {
	return GuardianConfig{
		Name:        "dungeon-guardian",
		Version:     "1",
		Planner:     PlannerConfig{MaxDepth: 10},
		Episode:     EpisodeConfig{MaxSteps: 10, MaxFailures: 10},
		Catalog:     CatalogConfig{Path: "configs/goap_actions.ini"},
		Environment: EnvironmentConfig{Grid: GridConfig{Width: 5, Height: 5}},
		Logging:     LoggingConfig{Level: "warn", Format: "console"},
		Journal:     JournalConfig{Backend: "memory", Retry: defaultRetry()},
		Telemetry:   TelemetryConfig{Tracing: TracingConfig{Exporter: "stdout", SampleRate: 1}},
		Batch:       BatchConfig{MaxConcurrent: 4},
		Stress:      defaultStress(),
	}
}

func defaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: Duration(10 * time.Millisecond),
		Multiplier:   2,
	}
}

func defaultStress() StressConfig {
	return StressConfig{
		Duration:      Duration(120 * time.Second),
		Interval:      Duration(2 * time.Second),
		DisableChance: 0.5,
		RestoreChance: 0.23,
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
