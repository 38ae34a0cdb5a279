// Package telemetry provides OpenTelemetry metrics and tracing for the
// planner and the episode runner.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	searches         metric.Int64Counter
	dequeues         metric.Int64Counter
	actionExecutions metric.Int64Counter
	phaseTransitions metric.Int64Counter
	errors           metric.Int64Counter

	// Histograms
	searchDuration  metric.Float64Histogram
	planLength      metric.Int64Histogram
	actionDuration  metric.Float64Histogram
	episodeDuration metric.Float64Histogram

	activeEpisodes metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/goap-go").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// Attributes are default attributes to attach to all metrics.
	Attributes []attribute.KeyValue
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/goap-go",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider from the global meter provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	meter := otel.GetMeterProvider().Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{meter: meter}
	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})

	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.searches, err = mp.meter.Int64Counter(
		"goap.plan.searches",
		metric.WithDescription("Number of plan searches"),
		metric.WithUnit("{search}"),
	)
	if err != nil {
		return err
	}

	mp.dequeues, err = mp.meter.Int64Counter(
		"goap.plan.dequeues",
		metric.WithDescription("Frontier entries dequeued during search"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return err
	}

	mp.actionExecutions, err = mp.meter.Int64Counter(
		"goap.action.executions",
		metric.WithDescription("Number of executed actions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return err
	}

	mp.phaseTransitions, err = mp.meter.Int64Counter(
		"goap.episode.transitions",
		metric.WithDescription("Number of episode phase transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"goap.errors",
		metric.WithDescription("Number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.searchDuration, err = mp.meter.Float64Histogram(
		"goap.plan.duration",
		metric.WithDescription("Duration of plan searches"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.planLength, err = mp.meter.Int64Histogram(
		"goap.plan.length",
		metric.WithDescription("Number of actions in found plans"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return err
	}

	mp.actionDuration, err = mp.meter.Float64Histogram(
		"goap.action.duration",
		metric.WithDescription("Duration of action executions"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.episodeDuration, err = mp.meter.Float64Histogram(
		"goap.episode.duration",
		metric.WithDescription("Duration of episodes"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.activeEpisodes, err = mp.meter.Int64UpDownCounter(
		"goap.episodes.active",
		metric.WithDescription("Number of running episodes"),
		metric.WithUnit("{episode}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordSearch records one plan search.
func (mp *MetricsProvider) RecordSearch(ctx context.Context, goal string, found bool, dequeued, length int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("goal", goal),
		attribute.Bool("found", found),
	)

	mp.searches.Add(ctx, 1, attrs)
	mp.dequeues.Add(ctx, int64(dequeued), attrs)
	mp.searchDuration.Record(ctx, millis(duration), attrs)
	if found {
		mp.planLength.Record(ctx, int64(length), metric.WithAttributes(attribute.String("goal", goal)))
	}
}

// RecordActionExecution records an executed action.
func (mp *MetricsProvider) RecordActionExecution(ctx context.Context, actionName string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("action.name", actionName),
		attribute.Bool("success", success),
	}

	mp.actionExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.actionDuration.Record(ctx, millis(duration), metric.WithAttributes(attrs...))

	if !success {
		mp.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error.type", "action_failed"),
			attribute.String("action.name", actionName),
		))
	}
}

// RecordPhaseTransition records an episode phase transition.
func (mp *MetricsProvider) RecordPhaseTransition(ctx context.Context, from, to string, episodeID string) {
	mp.phaseTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("phase.from", from),
		attribute.String("phase.to", to),
		attribute.String("episode.id", episodeID),
	))
}

// RecordEpisodeDuration records the duration of a finished episode.
func (mp *MetricsProvider) RecordEpisodeDuration(ctx context.Context, duration time.Duration, outcome string, achieved bool) {
	mp.episodeDuration.Record(ctx, millis(duration), metric.WithAttributes(
		attribute.String("episode.outcome", outcome),
		attribute.Bool("achieved", achieved),
	))
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
	attrs := []attribute.KeyValue{
		attribute.String("error.type", errorType),
	}
	for k, v := range details {
		attrs = append(attrs, attribute.String(k, v))
	}

	mp.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// IncrementActiveEpisodes increments the running episodes gauge.
func (mp *MetricsProvider) IncrementActiveEpisodes(ctx context.Context) {
	mp.activeEpisodes.Add(ctx, 1)
}

// DecrementActiveEpisodes decrements the running episodes gauge.
func (mp *MetricsProvider) DecrementActiveEpisodes(ctx context.Context) {
	mp.activeEpisodes.Add(ctx, -1)
}

// NoopMetricsProvider is a no-op metrics provider for tests or when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordSearch is a no-op.
func (n *NoopMetricsProvider) RecordSearch(context.Context, string, bool, int, int, time.Duration) {}

// RecordActionExecution is a no-op.
func (n *NoopMetricsProvider) RecordActionExecution(context.Context, string, bool, time.Duration) {}

// RecordPhaseTransition is a no-op.
func (n *NoopMetricsProvider) RecordPhaseTransition(context.Context, string, string, string) {}

// RecordEpisodeDuration is a no-op.
func (n *NoopMetricsProvider) RecordEpisodeDuration(context.Context, time.Duration, string, bool) {}

// RecordError is a no-op.
func (n *NoopMetricsProvider) RecordError(context.Context, string, map[string]string) {}

// IncrementActiveEpisodes is a no-op.
func (n *NoopMetricsProvider) IncrementActiveEpisodes(context.Context) {}

// DecrementActiveEpisodes is a no-op.
func (n *NoopMetricsProvider) DecrementActiveEpisodes(context.Context) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordSearch(ctx context.Context, goal string, found bool, dequeued, length int, duration time.Duration)
	RecordActionExecution(ctx context.Context, actionName string, success bool, duration time.Duration)
	RecordPhaseTransition(ctx context.Context, from, to string, episodeID string)
	RecordEpisodeDuration(ctx context.Context, duration time.Duration, outcome string, achieved bool)
	RecordError(ctx context.Context, errorType string, details map[string]string)
	IncrementActiveEpisodes(ctx context.Context)
	DecrementActiveEpisodes(ctx context.Context)
}

var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)
