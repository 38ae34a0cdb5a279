package config

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path    string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Paths returns the path of every error, in order.
func (e ValidationErrors) Paths() []string {
	paths := make([]string, len(e))
	for i, err := range e {
		paths[i] = err.Path
	}
	return paths
}

var (
	validLogLevels  = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "console": true}
	validBackends   = map[string]bool{"none": true, "memory": true, "sqlite": true, "badger": true, "postgres": true, "redis": true, "mongodb": true}
	validExporters  = map[string]bool{"otlp": true, "stdout": true, "noop": true}
)

// Validator validates guardian configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *GuardianConfig) ValidationErrors {
	v.errors = nil

	v.validateRequired(config)
	v.validateLoop(config)
	v.validateEnvironment(config)
	v.validateLogging(config)
	v.validateJournal(config)
	v.validateTelemetry(config)
	v.validateStress(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) probability(path string, p float64) {
	if p < 0 || p > 1 {
		v.addError(path, fmt.Sprintf("must be between 0 and 1, got %v", p))
	}
}

func (v *Validator) validateRequired(config *GuardianConfig) {
	if config.Name == "" {
		v.addError("name", "name is required")
	}
	if config.Version == "" {
		v.addError("version", "version is required")
	}
}

func (v *Validator) validateLoop(config *GuardianConfig) {
	if config.Planner.MaxDepth < 0 {
		v.addError("planner.max_depth", "max_depth must be non-negative")
	}
	if config.Episode.MaxSteps < 0 {
		v.addError("episode.max_steps", "max_steps must be non-negative")
	}
	if config.Episode.MaxFailures < 0 {
		v.addError("episode.max_failures", "max_failures must be non-negative")
	}
	if config.Batch.MaxConcurrent < 0 {
		v.addError("batch.max_concurrent", "max_concurrent must be non-negative")
	}
}

func (v *Validator) validateEnvironment(config *GuardianConfig) {
	names := make([]string, 0, len(config.Environment.FailureChances))
	for name := range config.Environment.FailureChances {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v.probability("environment.failure_chances."+name, config.Environment.FailureChances[name])
	}

	if config.Environment.Grid.Width < 0 {
		v.addError("environment.grid.width", "width must be non-negative")
	}
	if config.Environment.Grid.Height < 0 {
		v.addError("environment.grid.height", "height must be non-negative")
	}
}

func (v *Validator) validateLogging(config *GuardianConfig) {
	if lvl := config.Logging.Level; lvl != "" && !validLogLevels[strings.ToLower(lvl)] {
		v.addError("logging.level", fmt.Sprintf("invalid level: %s", lvl))
	}
	if f := config.Logging.Format; f != "" && !validLogFormats[f] {
		v.addError("logging.format", fmt.Sprintf("invalid format: %s", f))
	}
}

func (v *Validator) validateJournal(config *GuardianConfig) {
	j := config.Journal
	if j.Backend != "" && !validBackends[j.Backend] {
		v.addError("journal.backend", fmt.Sprintf("invalid backend: %s", j.Backend))
	}
	if j.Backend == "badger" && j.Dir == "" {
		v.addError("journal.dir", "dir is required for the badger backend")
	}
	if (j.Backend == "postgres" || j.Backend == "redis" || j.Backend == "mongodb") && j.DSN == "" {
		v.addError("journal.dsn", fmt.Sprintf("dsn is required for the %s backend", j.Backend))
	}
	if j.Retry.MaxAttempts < 0 {
		v.addError("journal.retry.max_attempts", "max_attempts must be non-negative")
	}
	if j.Retry.Multiplier != 0 && j.Retry.Multiplier < 1 {
		v.addError("journal.retry.multiplier", "multiplier must be >= 1")
	}
}

func (v *Validator) validateTelemetry(config *GuardianConfig) {
	t := config.Telemetry.Tracing
	if !t.Enabled {
		return
	}
	if !validExporters[t.Exporter] {
		v.addError("telemetry.tracing.exporter", fmt.Sprintf("invalid exporter: %s", t.Exporter))
	}
	if t.Exporter == "otlp" && t.Endpoint == "" {
		v.addError("telemetry.tracing.endpoint", "endpoint is required for the otlp exporter")
	}
	v.probability("telemetry.tracing.sample_rate", t.SampleRate)
}

func (v *Validator) validateStress(config *GuardianConfig) {
	s := config.Stress
	if s.Duration < 0 {
		v.addError("stress.duration", "duration must be non-negative")
	}
	if s.Interval < 0 {
		v.addError("stress.interval", "interval must be non-negative")
	}
	v.probability("stress.disable_chance", s.DisableChance)
	v.probability("stress.restore_chance", s.RestoreChance)
}
