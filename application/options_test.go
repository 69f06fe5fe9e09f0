package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/react-agent/application"
	"github.com/felixgeelhaar/react-agent/domain/react"
	"github.com/felixgeelhaar/react-agent/infrastructure/model"
	"github.com/felixgeelhaar/react-agent/infrastructure/resilience"
	"github.com/felixgeelhaar/react-agent/infrastructure/search"
	"github.com/felixgeelhaar/react-agent/infrastructure/storage/memory"
	"github.com/felixgeelhaar/react-agent/infrastructure/telemetry"
)

func TestOptions(t *testing.T) {
	t.Parallel()

	m := model.NewScripted()
	s := search.NewStatic()
	store := memory.NewRunStore()
	tracer := telemetry.NewNoopTracer()
	metrics := telemetry.NoopMetrics{}
	catalog, err := react.NewCatalog(react.WebSearchTool(3))
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	rc := resilience.Config{MaxAttempts: 2}

	config := &application.EngineConfig{}
	for _, opt := range []application.Option{
		application.WithModel(m),
		application.WithSearcher(s),
		application.WithCatalog(catalog),
		application.WithMaxIterations(7),
		application.WithTimeout(time.Minute),
		application.WithResilience(rc),
		application.WithRunStore(store),
		application.WithMetrics(metrics),
		application.WithTracer(tracer),
		application.WithIDGenerator(func() string { return "fixed" }),
	} {
		opt(config)
	}

	if config.Model != m {
		t.Error("WithModel should set the model")
	}
	if config.Searcher != s {
		t.Error("WithSearcher should set the searcher")
	}
	if config.Catalog != catalog {
		t.Error("WithCatalog should set the catalog")
	}
	if config.MaxIterations != 7 {
		t.Errorf("MaxIterations = %d, want 7", config.MaxIterations)
	}
	if config.Timeout != time.Minute {
		t.Errorf("Timeout = %v, want %v", config.Timeout, time.Minute)
	}
	if config.Resilience.MaxAttempts != 2 {
		t.Errorf("Resilience.MaxAttempts = %d, want 2", config.Resilience.MaxAttempts)
	}
	if config.Runs != store {
		t.Error("WithRunStore should set the run store")
	}
	if config.Metrics != metrics {
		t.Error("WithMetrics should set the metrics")
	}
	if config.Tracer != tracer {
		t.Error("WithTracer should set the tracer")
	}
	if config.IDGenerator == nil || config.IDGenerator() != "fixed" {
		t.Error("WithIDGenerator should set the ID generator")
	}
}

func TestNewEngineWithOptions(t *testing.T) {
	t.Parallel()

	engine, err := application.NewEngineWithOptions(
		application.WithModel(model.NewScripted("Final Answer: Paris")),
		application.WithSearcher(search.NewStatic()),
		application.WithMaxIterations(5),
		application.WithIDGenerator(func() string { return "run-fixed" }),
	)
	if err != nil {
		t.Fatalf("NewEngineWithOptions() error = %v", err)
	}
	if engine.MaxIterations() != 5 {
		t.Errorf("MaxIterations() = %d, want 5", engine.MaxIterations())
	}

	r, err := engine.Ask(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if r.ID != "run-fixed" {
		t.Errorf("ID = %q, want run-fixed", r.ID)
	}
	if r.MaxIterations != 5 {
		t.Errorf("MaxIterations = %d, want 5", r.MaxIterations)
	}
}

func TestNewEngineWithOptions_MissingModel(t *testing.T) {
	t.Parallel()

	_, err := application.NewEngineWithOptions(application.WithSearcher(search.NewStatic()))
	if err == nil {
		t.Error("NewEngineWithOptions() should fail without a model")
	}
}
