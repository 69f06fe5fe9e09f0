package application

import (
	"time"

	domainmodel "github.com/felixgeelhaar/react-agent/domain/model"
	"github.com/felixgeelhaar/react-agent/domain/react"
	"github.com/felixgeelhaar/react-agent/domain/run"
	domainsearch "github.com/felixgeelhaar/react-agent/domain/search"
	"github.com/felixgeelhaar/react-agent/infrastructure/resilience"
	"github.com/felixgeelhaar/react-agent/infrastructure/telemetry"
)

// Option configures the engine.
type Option func(*EngineConfig)

// WithModel sets the reasoning model.
func WithModel(m domainmodel.Model) Option {
	return func(c *EngineConfig) {
		c.Model = m
	}
}

// WithSearcher sets the search capability.
func WithSearcher(s domainsearch.Searcher) Option {
	return func(c *EngineConfig) {
		c.Searcher = s
	}
}

// WithCatalog sets the tool catalog rendered into prompts.
func WithCatalog(catalog *react.Catalog) Option {
	return func(c *EngineConfig) {
		c.Catalog = catalog
	}
}

// WithMaxIterations sets the budget used by Ask.
func WithMaxIterations(n int) Option {
	return func(c *EngineConfig) {
		c.MaxIterations = n
	}
}

// WithTimeout bounds each question.
func WithTimeout(d time.Duration) Option {
	return func(c *EngineConfig) {
		c.Timeout = d
	}
}

// WithResilience sets retry and circuit breaking for external calls.
func WithResilience(r resilience.Config) Option {
	return func(c *EngineConfig) {
		c.Resilience = r
	}
}

// WithRunStore records each run's outcome.
func WithRunStore(s run.Store) Option {
	return func(c *EngineConfig) {
		c.Runs = s
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *EngineConfig) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t *telemetry.Tracer) Option {
	return func(c *EngineConfig) {
		c.Tracer = t
	}
}

// WithIDGenerator sets how run IDs are created.
func WithIDGenerator(fn func() string) Option {
	return func(c *EngineConfig) {
		c.IDGenerator = fn
	}
}

// NewEngineWithOptions creates an engine with functional options.
func NewEngineWithOptions(opts ...Option) (*Engine, error) {
	config := EngineConfig{}
	for _, opt := range opts {
		opt(&config)
	}
	return NewEngine(config)
}
