package telemetry

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
)

func newRecordingTracer(t *testing.T) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return NewTracerFromProvider(tp), recorder
}

func TestTracer_ChildSpans(t *testing.T) {
	t.Parallel()

	tracer, recorder := newRecordingTracer(t)

	ctx, runSpan := tracer.StartRun(context.Background(), "run-1", 3)

	_, completion := tracer.StartCompletion(ctx, "scripted", 1)
	EndSpan(completion, nil)

	_, search := tracer.StartSearch(ctx, "static", "election X winner")
	EndSpan(search, errors.New("search failed"))

	EndSpan(runSpan, nil)

	spans := recorder.Ended()
	if len(spans) != 3 {
		t.Fatalf("len(spans) = %d, want 3", len(spans))
	}

	byName := make(map[string]sdktrace.ReadOnlySpan, len(spans))
	for _, s := range spans {
		byName[s.Name()] = s
	}

	run, ok := byName[SpanRun]
	if !ok {
		t.Fatalf("span %s not recorded", SpanRun)
	}
	for _, name := range []string{SpanCompletion, SpanSearch} {
		child, ok := byName[name]
		if !ok {
			t.Fatalf("span %s not recorded", name)
		}
		if child.Parent().SpanID() != run.SpanContext().SpanID() {
			t.Errorf("%s parent = %v, want %v", name, child.Parent().SpanID(), run.SpanContext().SpanID())
		}
	}

	if got := byName[SpanSearch].Status().Code; got != codes.Error {
		t.Errorf("search status = %v, want %v", got, codes.Error)
	}
	if got := byName[SpanCompletion].Status().Code; got != codes.Ok {
		t.Errorf("completion status = %v, want %v", got, codes.Ok)
	}
}

func TestNewTracer_Disabled(t *testing.T) {
	t.Parallel()

	tracer, err := NewTracer(context.Background(), domainconfig.TelemetryConfig{})
	if err != nil {
		t.Fatalf("NewTracer() error = %v", err)
	}

	_, span := tracer.StartRun(context.Background(), "run-1", 1)
	if span.SpanContext().IsValid() {
		t.Error("disabled tracer produced a recording span")
	}
	EndSpan(span, nil)

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewTracer_UnknownExporter(t *testing.T) {
	t.Parallel()

	_, err := NewTracer(context.Background(), domainconfig.TelemetryConfig{
		Enabled:  true,
		Exporter: "zipkin",
	})
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("NewTracer() error = %v, want %v", err, ErrUnknownExporter)
	}
}

func TestNewTracer_Stdout(t *testing.T) {
	var buf bytes.Buffer
	tracer, err := NewTracer(context.Background(), domainconfig.TelemetryConfig{
		Enabled:     true,
		Exporter:    domainconfig.ExporterStdout,
		ServiceName: "askagent-test",
	}, WithStdoutWriter(&buf), WithServiceVersion("test"))
	if err != nil {
		t.Fatalf("NewTracer() error = %v", err)
	}

	_, span := tracer.StartRun(context.Background(), "run-1", 3)
	EndSpan(span, nil)

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !strings.Contains(buf.String(), SpanRun) {
		t.Errorf("exported output does not mention %s", SpanRun)
	}
}
