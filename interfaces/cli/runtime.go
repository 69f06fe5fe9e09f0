package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/react-agent/application"
	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
	"github.com/felixgeelhaar/react-agent/domain/react"
	"github.com/felixgeelhaar/react-agent/infrastructure/logging"
	"github.com/felixgeelhaar/react-agent/infrastructure/model"
	"github.com/felixgeelhaar/react-agent/infrastructure/resilience"
	"github.com/felixgeelhaar/react-agent/infrastructure/search"
	"github.com/felixgeelhaar/react-agent/infrastructure/storage"
	"github.com/felixgeelhaar/react-agent/infrastructure/telemetry"
)

// runtime holds everything a command needs to resolve questions.
type runtime struct {
	engine   *application.Engine
	backends *storage.Backends
	tracer   *telemetry.Tracer
}

// initLogging configures the process logger from cfg. Logs always go to
// stderr so stdout carries only answers.
func (a *App) initLogging(cfg domainconfig.LoggingConfig) {
	logging.Init(logging.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: a.stderr,
	})
}

// newRuntime wires the configured model, search, storage and telemetry
// into an engine.
func (a *App) newRuntime(ctx context.Context, cfg *domainconfig.Config) (*runtime, error) {
	rt := &runtime{}

	backends, err := storage.Open(ctx, cfg.Storage, cfg.Search.Cache)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	rt.backends = backends

	tracer, err := telemetry.NewTracer(ctx, cfg.Telemetry,
		telemetry.WithStdoutWriter(a.stderr),
		telemetry.WithServiceVersion(Version),
	)
	if err != nil {
		_ = rt.close(ctx)
		return nil, fmt.Errorf("start tracing: %w", err)
	}
	rt.tracer = tracer

	metrics := telemetry.NewMetricsProvider(telemetry.DefaultMetricsConfig())
	if err := metrics.Error(); err != nil {
		logging.Warn().
			Add(logging.Component("telemetry")).
			Add(logging.ErrorField(err)).
			Msg("metrics instruments unavailable")
	}

	m, err := model.New(ctx, cfg.Model)
	if err != nil {
		_ = rt.close(ctx)
		return nil, fmt.Errorf("create model: %w", err)
	}

	s, err := search.New(cfg.Search, backends.Cache, search.WithCacheRecorder(metrics))
	if err != nil {
		_ = rt.close(ctx)
		return nil, fmt.Errorf("create searcher: %w", err)
	}

	catalog, err := react.NewCatalog(react.WebSearchTool(cfg.Search.MaxResults))
	if err != nil {
		_ = rt.close(ctx)
		return nil, fmt.Errorf("build tool catalog: %w", err)
	}

	engine, err := application.NewEngine(application.EngineConfig{
		Model:         m,
		Searcher:      s,
		Catalog:       catalog,
		MaxIterations: cfg.Agent.MaxIterations,
		Timeout:       cfg.Agent.Timeout.Duration(),
		Resilience:    resilienceConfig(cfg.Resilience),
		Runs:          backends.Runs,
		Metrics:       metrics,
		Tracer:        tracer,
	})
	if err != nil {
		_ = rt.close(ctx)
		return nil, fmt.Errorf("create engine: %w", err)
	}
	rt.engine = engine

	logging.Debug().
		Add(logging.Component("cli")).
		Add(logging.Provider(m.Name())).
		Add(logging.Str("search", s.Name())).
		Add(logging.Budget("iterations", cfg.Agent.MaxIterations)).
		Msg("engine ready")

	return rt, nil
}

// close releases storage connections and flushes pending spans.
func (rt *runtime) close(ctx context.Context) error {
	var errs []error
	if rt.tracer != nil {
		if err := rt.tracer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
		}
	}
	if rt.backends != nil {
		if err := rt.backends.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func resilienceConfig(cfg domainconfig.ResilienceConfig) resilience.Config {
	return resilience.Config{
		MaxAttempts:      cfg.MaxAttempts,
		InitialDelay:     cfg.InitialDelay.Duration(),
		Multiplier:       cfg.Multiplier,
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerTimeout:   cfg.BreakerTimeout.Duration(),
	}
}
