// Package telemetry provides OpenTelemetry metrics and tracing for the
// question-answering loop.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider records loop metrics on an OpenTelemetry meter.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	completions metric.Int64Counter
	searches    metric.Int64Counter
	parseErrors metric.Int64Counter
	outcomes    metric.Int64Counter
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter

	// Histograms
	completionDuration metric.Float64Histogram
	searchDuration     metric.Float64Histogram
	runDuration        metric.Float64Histogram

	// Gauges
	activeRuns metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter.
	MeterName string

	// MeterVersion is the version of the meter.
	MeterVersion string

	// MeterProvider supplies the meter. Nil uses the global provider.
	MeterProvider metric.MeterProvider
}

// DefaultMetricsConfig returns the default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/react-agent",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		defaults := DefaultMetricsConfig()
		config.MeterName = defaults.MeterName
		config.MeterVersion = defaults.MeterVersion
	}

	provider := config.MeterProvider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{
		meter: meter,
	}

	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})

	return mp
}

// initInstruments initializes all metric instruments.
func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.completions, err = mp.meter.Int64Counter(
		"askagent.model.completions",
		metric.WithDescription("Number of completion calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	mp.searches, err = mp.meter.Int64Counter(
		"askagent.search.calls",
		metric.WithDescription("Number of search calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	mp.parseErrors, err = mp.meter.Int64Counter(
		"askagent.parse.errors",
		metric.WithDescription("Number of completions that could not be parsed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.outcomes, err = mp.meter.Int64Counter(
		"askagent.runs",
		metric.WithDescription("Number of resolved questions by outcome"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	mp.cacheHits, err = mp.meter.Int64Counter(
		"askagent.search.cache.hits",
		metric.WithDescription("Number of search cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	mp.cacheMisses, err = mp.meter.Int64Counter(
		"askagent.search.cache.misses",
		metric.WithDescription("Number of search cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}

	mp.completionDuration, err = mp.meter.Float64Histogram(
		"askagent.model.duration",
		metric.WithDescription("Duration of completion calls"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.searchDuration, err = mp.meter.Float64Histogram(
		"askagent.search.duration",
		metric.WithDescription("Duration of search calls"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.runDuration, err = mp.meter.Float64Histogram(
		"askagent.run.duration",
		metric.WithDescription("Duration of resolved questions"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.activeRuns, err = mp.meter.Int64UpDownCounter(
		"askagent.runs.active",
		metric.WithDescription("Number of questions being resolved"),
		metric.WithUnit("{run}"),
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

// RecordCompletion records one completion call.
func (mp *MetricsProvider) RecordCompletion(ctx context.Context, provider string, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("model.provider", provider),
		attribute.Bool("success", success),
	)
	mp.completions.Add(ctx, 1, attrs)
	mp.completionDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordSearch records one search call.
func (mp *MetricsProvider) RecordSearch(ctx context.Context, provider string, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("search.provider", provider),
		attribute.Bool("success", success),
	)
	mp.searches.Add(ctx, 1, attrs)
	mp.searchDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordParseError records a completion that did not follow the grammar.
func (mp *MetricsProvider) RecordParseError(ctx context.Context, provider string) {
	mp.parseErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model.provider", provider),
	))
}

// RecordCacheHit records a search cache hit.
func (mp *MetricsProvider) RecordCacheHit(ctx context.Context, provider string) {
	mp.cacheHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("search.provider", provider),
	))
}

// RecordCacheMiss records a search cache miss.
func (mp *MetricsProvider) RecordCacheMiss(ctx context.Context, provider string) {
	mp.cacheMisses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("search.provider", provider),
	))
}

// RecordOutcome records how a question resolved. An empty kind means the
// question was answered.
func (mp *MetricsProvider) RecordOutcome(ctx context.Context, status string, kind string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("run.status", status),
	}
	if kind != "" {
		attrs = append(attrs, attribute.String("error.kind", kind))
	}

	mp.outcomes.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.runDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// IncrementActiveRuns increments the active runs gauge.
func (mp *MetricsProvider) IncrementActiveRuns(ctx context.Context) {
	mp.activeRuns.Add(ctx, 1)
}

// DecrementActiveRuns decrements the active runs gauge.
func (mp *MetricsProvider) DecrementActiveRuns(ctx context.Context) {
	mp.activeRuns.Add(ctx, -1)
}

// NoopMetrics is a no-op metrics recorder for tests or when metrics are disabled.
type NoopMetrics struct{}

// RecordCompletion is a no-op.
func (NoopMetrics) RecordCompletion(context.Context, string, bool, time.Duration) {}

// RecordSearch is a no-op.
func (NoopMetrics) RecordSearch(context.Context, string, bool, time.Duration) {}

// RecordParseError is a no-op.
func (NoopMetrics) RecordParseError(context.Context, string) {}

// RecordCacheHit is a no-op.
func (NoopMetrics) RecordCacheHit(context.Context, string) {}

// RecordCacheMiss is a no-op.
func (NoopMetrics) RecordCacheMiss(context.Context, string) {}

// RecordOutcome is a no-op.
func (NoopMetrics) RecordOutcome(context.Context, string, string, time.Duration) {}

// IncrementActiveRuns is a no-op.
func (NoopMetrics) IncrementActiveRuns(context.Context) {}

// DecrementActiveRuns is a no-op.
func (NoopMetrics) DecrementActiveRuns(context.Context) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordCompletion(ctx context.Context, provider string, success bool, duration time.Duration)
	RecordSearch(ctx context.Context, provider string, success bool, duration time.Duration)
	RecordParseError(ctx context.Context, provider string)
	RecordCacheHit(ctx context.Context, provider string)
	RecordCacheMiss(ctx context.Context, provider string)
	RecordOutcome(ctx context.Context, status string, kind string, duration time.Duration)
	IncrementActiveRuns(ctx context.Context)
	DecrementActiveRuns(ctx context.Context)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = NoopMetrics{}
)
