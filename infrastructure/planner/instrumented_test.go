package planner

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/telemetry"
)

func TestInstrumented_Search(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	inner := NewBFS(healCatalog(t))
	p := NewInstrumented(inner, WithTracer(tp.Tracer("test")))

	res, err := p.Search(context.Background(), Request{
		Start:    world.State{"health": world.Int(20), "hasPotion": world.Bool(true)},
		Goal:     healthAtLeast50,
		GoalName: "Heal",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !res.Found || res.Plan.Len() != 1 {
		t.Errorf("Search() = %+v", res)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	if spans[0].Name() != "goap.plan" {
		t.Errorf("span name = %q", spans[0].Name())
	}

	attrs := make(map[string]any)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs["goap.goal"] != "Heal" {
		t.Errorf("goap.goal = %v", attrs["goap.goal"])
	}
	if attrs["goap.found"] != true {
		t.Errorf("goap.found = %v", attrs["goap.found"])
	}
	if attrs["goap.max_depth"] != int64(DefaultMaxDepth) {
		t.Errorf("goap.max_depth = %v", attrs["goap.max_depth"])
	}
}

func TestInstrumented_Error(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	p := NewInstrumented(NewBFS(nil), WithTracer(tp.Tracer("test")), WithMetrics(&telemetry.NoopMetricsProvider{}))

	_, err := p.Search(context.Background(), Request{})
	if !errors.Is(err, ErrNilGoal) {
		t.Fatalf("error = %v, want ErrNilGoal", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected the error to be recorded on the span")
	}
}

func TestInstrumented_PassesThroughPlan(t *testing.T) {
	t.Parallel()

	mock := NewMockPlanner(Result{Plan: plan.Plan{"Retreat"}, Found: true})
	p := NewInstrumented(mock)

	res, err := p.Search(context.Background(), Request{GoalName: "EliminateThreat"})
	if err != nil || !res.Found || res.Plan[0] != "Retreat" {
		t.Errorf("Search() = %+v, %v", res, err)
	}
	if got := mock.Requests(); len(got) != 1 || got[0].GoalName != "EliminateThreat" {
		t.Errorf("inner requests = %+v", got)
	}
}
