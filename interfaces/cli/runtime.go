package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/goap-go/application"
	"github.com/felixgeelhaar/goap-go/domain/config"
	"github.com/felixgeelhaar/goap-go/domain/dungeon"
	"github.com/felixgeelhaar/goap-go/domain/journal"
	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/catalog"
	infraconfig "github.com/felixgeelhaar/goap-go/infrastructure/config"
	"github.com/felixgeelhaar/goap-go/infrastructure/environment"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
	"github.com/felixgeelhaar/goap-go/infrastructure/planner"
	"github.com/felixgeelhaar/goap-go/infrastructure/storage"
	"github.com/felixgeelhaar/goap-go/infrastructure/telemetry"
)

// runtime is the wired set of components a command works with.
type runtime struct {
	cfg     *config.GuardianConfig
	bundle  *catalog.Bundle
	env     *environment.Environment
	journal journal.Store
	metrics telemetry.Metrics
	tracing *telemetry.Tracing

	closer io.Closer
}

// loadConfig reads --config (or the defaults) and applies flag overrides.
func (a *App) loadConfig() (*config.GuardianConfig, error) {
	cfg, err := infraconfig.NewLoader().LoadOrDefault(a.opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.opts.catalogPath != "" {
		cfg.Catalog.Path = a.opts.catalogPath
	}
	if a.opts.logLevel != "" {
		cfg.Logging.Level = a.opts.logLevel
	}
	if a.opts.seed != 0 {
		cfg.Environment.Seed = a.opts.seed
	}
	return cfg, nil
}

// loadBundle loads the configured catalog. An empty path uses the built-in
// dungeon catalog.
func loadBundle(cfg *config.GuardianConfig) (*catalog.Bundle, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default(), nil
	}
	b, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return b, nil
}

// setup loads configuration and wires logging, tracing, the catalog, the
// environment and the journal. Callers must Close the runtime.
func (a *App) setup(ctx context.Context) (*runtime, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	logging.Configure(cfg.Logging, a.stderr)

	bundle, err := loadBundle(cfg)
	if err != nil {
		return nil, err
	}

	tracing, err := telemetry.SetupTracing(ctx, tracingConfig(cfg, a.stderr))
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	store, closer, err := storage.Open(ctx, cfg.Journal)
	if err != nil {
		_ = tracing.Shutdown(ctx)
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	var metrics telemetry.Metrics = &telemetry.NoopMetricsProvider{}
	if cfg.Telemetry.Metrics {
		metrics = telemetry.NewMetricsProvider(telemetry.DefaultMetricsConfig())
	}

	rt := &runtime{
		cfg:     cfg,
		bundle:  bundle,
		env:     newEnvironment(cfg, bundle),
		journal: store,
		metrics: metrics,
		tracing: tracing,
		closer:  closer,
	}

	logging.Debug().
		Add(logging.Component("cli")).
		Add(logging.Path(bundle.Path)).
		Add(logging.Count(bundle.Actions.Len())).
		Add(logging.Str("journal", cfg.Journal.Backend)).
		Msg("runtime ready")

	return rt, nil
}

func newEnvironment(cfg *config.GuardianConfig, bundle *catalog.Bundle) *environment.Environment {
	chances := dungeon.FailureChances()
	for name, p := range cfg.Environment.FailureChances {
		chances[name] = p
	}

	opts := []environment.Option{
		environment.WithFailureChances(chances),
		environment.WithGrid(cfg.Environment.Grid.Width, cfg.Environment.Grid.Height),
	}
	if cfg.Environment.Seed != 0 {
		opts = append(opts, environment.WithSeed(cfg.Environment.Seed))
	}
	return environment.New(bundle.Actions, opts...)
}

func tracingConfig(cfg *config.GuardianConfig, w io.Writer) telemetry.TracingConfig {
	tc := telemetry.DefaultTracingConfig()
	tc.Enabled = cfg.Telemetry.Tracing.Enabled
	if cfg.Telemetry.Tracing.Exporter != "" {
		tc.Exporter = telemetry.ExporterType(strings.ToLower(cfg.Telemetry.Tracing.Exporter))
	}
	tc.Endpoint = cfg.Telemetry.Tracing.Endpoint
	tc.Insecure = cfg.Telemetry.Tracing.Insecure
	tc.SampleRate = cfg.Telemetry.Tracing.SampleRate
	if cfg.Telemetry.Tracing.Environment != "" {
		tc.Environment = cfg.Telemetry.Tracing.Environment
	}
	tc.ServiceVersion = Version
	tc.Writer = w
	return tc
}

// newPlanner builds an instrumented BFS planner over bundle.
func (rt *runtime) newPlanner(bundle *catalog.Bundle) planner.Planner {
	return planner.NewInstrumented(
		planner.NewBFS(bundle.Actions),
		planner.WithMetrics(rt.metrics),
		planner.WithTracer(rt.tracing.Tracer()),
	)
}

// newRunner builds an episode runner over bundle.
func (rt *runtime) newRunner(bundle *catalog.Bundle, opts ...application.Option) (*application.Runner, error) {
	base := []application.Option{
		application.WithConfig(rt.cfg),
		application.WithPlanner(rt.newPlanner(bundle)),
		application.WithEnvironment(rt.env),
		application.WithCatalog(bundle.Actions),
		application.WithJournal(rt.journal),
		application.WithMetrics(rt.metrics),
		application.WithTracer(rt.tracing.Tracer()),
	}
	return application.New(append(base, opts...)...)
}

// Close flushes spans and releases the journal.
func (rt *runtime) Close(ctx context.Context) error {
	terr := rt.tracing.Shutdown(context.WithoutCancel(ctx))
	cerr := rt.closer.Close()
	if terr != nil {
		return terr
	}
	return cerr
}

// parseAssignments overlays k=v pairs on base.
func parseAssignments(base world.State, pairs []string) (world.State, error) {
	s := base.Clone()
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid state assignment %q (want fact=value)", pair)
		}
		s[k] = world.Parse(v)
	}
	return s, nil
}
