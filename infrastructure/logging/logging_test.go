package logging

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/goap-go/domain/agent"
	"github.com/felixgeelhaar/goap-go/domain/config"
	"github.com/felixgeelhaar/goap-go/domain/plan"
	"github.com/felixgeelhaar/goap-go/domain/world"
)

// testLogger creates a logger that writes to a buffer for testing
func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := bolt.NewJSONHandler(buf)
	logger := bolt.New(handler).SetLevel(bolt.TRACE)
	return logger, buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "warn" {
		t.Errorf("Level = %s, want warn", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("Format = %s, want console", cfg.Format)
	}
	if cfg.Output != os.Stderr {
		t.Errorf("Output = %v, want os.Stderr", cfg.Output)
	}
}

func TestFromSettings(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	cfg := FromSettings(config.LoggingConfig{Level: "debug", Format: "json"}, buf)

	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("FromSettings() = %+v", cfg)
	}
	if cfg.Output != buf {
		t.Error("Output should be the given writer")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"DEBUG", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"unknown", bolt.INFO},
		{"", bolt.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			result := parseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLevel(%s) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := New(Config{Level: "debug", Format: "json", Output: buf})
	logger.Debug().Str("k", "v").Msg("hello")

	if !bytes.Contains(buf.Bytes(), []byte(`"k":"v"`)) {
		t.Errorf("expected field in output: %s", buf.String())
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"episode id", EpisodeID("ep-1"), `"episode_id":"ep-1"`},
		{"phase", Phase(agent.PhasePlan), `"phase":"plan"`},
		{"from phase", FromPhase(agent.PhaseSelectGoal), `"from_phase":"select_goal"`},
		{"to phase", ToPhase(agent.PhaseExecute), `"to_phase":"execute"`},
		{"goal", Goal("Survive"), `"goal":"Survive"`},
		{"action", Action("HealSelf"), `"action":"HealSelf"`},
		{"plan", Plan(plan.Plan{"Retreat", "HealSelf"}), `"plan":"Retreat -> HealSelf"`},
		{"plan len", Plan(plan.Plan{"Retreat"}), `"plan_len":1`},
		{"world", WorldState(world.State{"health": world.Int(20)}), `"world":"{health: 20}"`},
		{"step", Step(3), `"step":3`},
		{"depth", Depth(10), `"max_depth":10`},
		{"dequeued", Dequeued(7), `"dequeued":7`},
		{"found", Found(true), `"found":true`},
		{"success", Success(false), `"success":false`},
		{"reason", Reason("low health"), `"reason":"low health"`},
		{"path", Path("goap_actions.ini"), `"path":"goap_actions.ini"`},
		{"count", Count(4), `"count":4`},
		{"duration", Duration(100 * time.Millisecond), `"duration_ms":100`},
		{"duration ns", DurationNs(time.Microsecond), `"duration_ns":1000`},
		{"component", Component("planner"), `"component":"planner"`},
		{"str", Str("key", "value"), `"key":"value"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := testLogger()
			tt.field(logger.Info()).Msg("test")

			if !bytes.Contains(buf.Bytes(), []byte(tt.want)) {
				t.Errorf("expected %s in output: %s", tt.want, buf.String())
			}
		})
	}
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	t.Run("with error", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		ErrorField(errors.New("test error"))(logger.Info()).Msg("test")

		if !bytes.Contains(buf.Bytes(), []byte(`"error":"test error"`)) {
			t.Errorf("expected error field in output: %s", buf.String())
		}
	})

	t.Run("with nil error", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		ErrorField(nil)(logger.Info()).Msg("test")

		if bytes.Contains(buf.Bytes(), []byte(`"error"`)) {
			t.Errorf("unexpected error field in output: %s", buf.String())
		}
	})
}

func TestLogEvent_Chaining(t *testing.T) {
	logger, buf := testLogger()
	Set(logger)

	Info().Add(EpisodeID("ep-9")).Add(Goal("Patrol")).Msg("chained")

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte(`"episode_id":"ep-9"`)) || !bytes.Contains([]byte(out), []byte(`"goal":"Patrol"`)) {
		t.Errorf("chained fields missing: %s", out)
	}
	if Get() != logger {
		t.Error("Get() should return the logger passed to Set()")
	}
}
