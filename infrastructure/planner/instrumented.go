package planner

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
	"github.com/felixgeelhaar/goap-go/infrastructure/telemetry"
)

// Instrumented decorates a Planner with a span, metrics and a debug log line
// per search.
type Instrumented struct {
	next    Planner
	tracer  trace.Tracer
	metrics telemetry.Metrics
}

// InstrumentOption configures an Instrumented planner.
type InstrumentOption func(*Instrumented)

// WithTracer sets the tracer. Defaults to the global tracer provider.
func WithTracer(t trace.Tracer) InstrumentOption {
	return func(i *Instrumented) {
		i.tracer = t
	}
}

// WithMetrics sets the metrics recorder. Defaults to a no-op recorder.
func WithMetrics(m telemetry.Metrics) InstrumentOption {
	return func(i *Instrumented) {
		i.metrics = m
	}
}

// NewInstrumented wraps next.
func NewInstrumented(next Planner, opts ...InstrumentOption) *Instrumented {
	i := &Instrumented{
		next:    next,
		tracer:  otel.Tracer(telemetry.TracerName),
		metrics: &telemetry.NoopMetricsProvider{},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Search implements Planner.
func (i *Instrumented) Search(ctx context.Context, req Request) (Result, error) {
	depth := effectiveDepth(req.MaxDepth)

	ctx, span := i.tracer.Start(ctx, "goap.plan", trace.WithAttributes(
		attribute.String("goap.goal", req.GoalName),
		attribute.Int("goap.max_depth", depth),
		attribute.Int("goap.start_facts", len(req.Start)),
	))
	defer span.End()

	start := time.Now()
	res, err := i.next.Search(ctx, req)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.Bool("goap.found", res.Found),
		attribute.Int("goap.dequeued", res.Stats.Dequeued),
		attribute.Int("goap.skipped", res.Stats.Skipped),
		attribute.Int("goap.enqueued", res.Stats.Enqueued),
		attribute.Int("goap.plan_length", res.Plan.Len()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		i.metrics.RecordError(ctx, "plan_search", map[string]string{"goal": req.GoalName})
		logging.Warn().
			Add(logging.Component("planner")).
			Add(logging.Goal(req.GoalName)).
			Add(logging.ErrorField(err)).
			Msg("plan search aborted")
		return res, err
	}

	i.metrics.RecordSearch(ctx, req.GoalName, res.Found, res.Stats.Dequeued, res.Plan.Len(), elapsed)

	logging.Debug().
		Add(logging.Component("planner")).
		Add(logging.Goal(req.GoalName)).
		Add(logging.Depth(depth)).
		Add(logging.Dequeued(res.Stats.Dequeued)).
		Add(logging.Found(res.Found)).
		Add(logging.Plan(res.Plan)).
		Add(logging.DurationNs(elapsed)).
		Msg("plan search finished")

	return res, nil
}

var _ Planner = (*Instrumented)(nil)
