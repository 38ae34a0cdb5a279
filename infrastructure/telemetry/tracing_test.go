package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestSetupTracing_Disabled(t *testing.T) {
	tr, err := SetupTracing(context.Background(), DefaultTracingConfig())
	if err != nil {
		t.Fatalf("SetupTracing() error = %v", err)
	}
	if tr.Tracer() == nil {
		t.Fatal("Tracer() returned nil")
	}

	_, span := tr.Tracer().Start(context.Background(), "noop")
	span.End()

	if err := tr.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestSetupTracing_Stdout(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Exporter = ExporterStdout
	cfg.Writer = &buf

	tr, err := SetupTracing(context.Background(), cfg)
	if err != nil {
		t.Fatalf("SetupTracing() error = %v", err)
	}

	_, span := tr.Tracer().Start(context.Background(), "goap.plan")
	span.End()

	if err := tr.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !strings.Contains(buf.String(), "goap.plan") {
		t.Errorf("exported spans missing goap.plan: %s", buf.String())
	}
}

func TestSetupTracing_UnknownExporter(t *testing.T) {
	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.Exporter = "carrier-pigeon"

	if _, err := SetupTracing(context.Background(), cfg); err == nil {
		t.Error("SetupTracing() with unknown exporter should fail")
	}
}
