package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupTestMetrics creates a metrics provider backed by a manual reader.
func setupTestMetrics(t *testing.T) (*metric.ManualReader, *MetricsProvider) {
	t.Helper()

	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))

	config := DefaultMetricsConfig()
	config.MeterProvider = provider
	mp := NewMetricsProvider(config)
	if mp.Error() != nil {
		t.Fatalf("failed to create metrics provider: %v", mp.Error())
	}

	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return reader, mp
}

func collect(t *testing.T, reader *metric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumTotal(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected Sum[int64], got %T", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func histogramCount(t *testing.T, m metricdata.Metrics) uint64 {
	t.Helper()

	hist, ok := m.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("%s: expected Histogram[float64], got %T", m.Name, m.Data)
	}
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	return count
}

func TestNewMetricsProvider(t *testing.T) {
	t.Parallel()

	_, mp := setupTestMetrics(t)
	if mp == nil {
		t.Fatal("NewMetricsProvider returned nil")
	}
	if mp.Error() != nil {
		t.Errorf("unexpected error: %v", mp.Error())
	}
}

func TestNewMetricsProvider_EmptyNameUsesDefaults(t *testing.T) {
	t.Parallel()

	mp := NewMetricsProvider(MetricsConfig{})
	if mp.Error() != nil {
		t.Errorf("unexpected error: %v", mp.Error())
	}
}

func TestMetricsProvider_RecordCompletion(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	ctx := context.Background()

	mp.RecordCompletion(ctx, "scripted", true, 100*time.Millisecond)
	mp.RecordCompletion(ctx, "scripted", false, 50*time.Millisecond)

	metrics := collect(t, reader)

	m, ok := metrics["askagent.model.completions"]
	if !ok {
		t.Fatal("askagent.model.completions metric not found")
	}
	if got := sumTotal(t, m); got != 2 {
		t.Errorf("completions = %d, want 2", got)
	}

	d, ok := metrics["askagent.model.duration"]
	if !ok {
		t.Fatal("askagent.model.duration metric not found")
	}
	if got := histogramCount(t, d); got != 2 {
		t.Errorf("duration count = %d, want 2", got)
	}
}

func TestMetricsProvider_RecordSearch(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	ctx := context.Background()

	mp.RecordSearch(ctx, "duckduckgo", true, 200*time.Millisecond)

	metrics := collect(t, reader)
	if got := sumTotal(t, metrics["askagent.search.calls"]); got != 1 {
		t.Errorf("searches = %d, want 1", got)
	}
	if got := histogramCount(t, metrics["askagent.search.duration"]); got != 1 {
		t.Errorf("duration count = %d, want 1", got)
	}
}

func TestMetricsProvider_RecordParseError(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	ctx := context.Background()

	mp.RecordParseError(ctx, "gemini")
	mp.RecordParseError(ctx, "gemini")
	mp.RecordParseError(ctx, "openai")

	metrics := collect(t, reader)
	if got := sumTotal(t, metrics["askagent.parse.errors"]); got != 3 {
		t.Errorf("parse errors = %d, want 3", got)
	}
}

func TestMetricsProvider_RecordCacheHitMiss(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	ctx := context.Background()

	mp.RecordCacheHit(ctx, "brave")
	mp.RecordCacheHit(ctx, "brave")
	mp.RecordCacheMiss(ctx, "brave")

	metrics := collect(t, reader)
	if got := sumTotal(t, metrics["askagent.search.cache.hits"]); got != 2 {
		t.Errorf("cache hits = %d, want 2", got)
	}
	if got := sumTotal(t, metrics["askagent.search.cache.misses"]); got != 1 {
		t.Errorf("cache misses = %d, want 1", got)
	}
}

func TestMetricsProvider_RecordOutcome(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	ctx := context.Background()

	mp.RecordOutcome(ctx, "completed", "", time.Second)
	mp.RecordOutcome(ctx, "failed", "budget_exceeded", 2*time.Second)
	mp.RecordOutcome(ctx, "failed", "budget_exceeded", 3*time.Second)

	metrics := collect(t, reader)

	m := metrics["askagent.runs"]
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", m.Data)
	}

	byKind := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		kind, _ := dp.Attributes.Value(attribute.Key("error.kind"))
		byKind[kind.AsString()] += dp.Value
	}
	if byKind[""] != 1 {
		t.Errorf("answered runs = %d, want 1", byKind[""])
	}
	if byKind["budget_exceeded"] != 2 {
		t.Errorf("budget_exceeded runs = %d, want 2", byKind["budget_exceeded"])
	}

	if got := histogramCount(t, metrics["askagent.run.duration"]); got != 3 {
		t.Errorf("run duration count = %d, want 3", got)
	}
}

func TestMetricsProvider_ActiveRuns(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	ctx := context.Background()

	mp.IncrementActiveRuns(ctx)
	mp.IncrementActiveRuns(ctx)
	mp.DecrementActiveRuns(ctx)

	metrics := collect(t, reader)
	if got := sumTotal(t, metrics["askagent.runs.active"]); got != 1 {
		t.Errorf("active runs = %d, want 1", got)
	}
}

func TestNoopMetrics(t *testing.T) {
	t.Parallel()

	var m Metrics = NoopMetrics{}
	ctx := context.Background()

	// Should not panic
	m.RecordCompletion(ctx, "p", true, time.Second)
	m.RecordSearch(ctx, "p", false, time.Second)
	m.RecordParseError(ctx, "p")
	m.RecordCacheHit(ctx, "p")
	m.RecordCacheMiss(ctx, "p")
	m.RecordOutcome(ctx, "failed", "canceled", time.Second)
	m.IncrementActiveRuns(ctx)
	m.DecrementActiveRuns(ctx)
}

func TestDefaultMetricsConfig(t *testing.T) {
	t.Parallel()

	config := DefaultMetricsConfig()
	if config.MeterName == "" {
		t.Error("MeterName is empty")
	}
	if config.MeterVersion == "" {
		t.Error("MeterVersion is empty")
	}
	if config.MeterProvider != nil {
		t.Error("MeterProvider should default to the global provider")
	}
}
