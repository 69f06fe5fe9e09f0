package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
)

// ErrUnknownExporter indicates an unsupported trace exporter.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// Span names.
const (
	SpanRun        = "askagent.run"
	SpanCompletion = "askagent.model.complete"
	SpanSearch     = "askagent.search"
)

// Tracer starts the spans of a run: one span per question with a child span
// per completion and search call.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

// TracerOption configures NewTracer.
type TracerOption func(*tracerOptions)

type tracerOptions struct {
	writer  io.Writer
	version string
}

// WithStdoutWriter sets where the stdout exporter writes. Defaults to stderr.
func WithStdoutWriter(w io.Writer) TracerOption {
	return func(o *tracerOptions) {
		o.writer = w
	}
}

// WithServiceVersion sets the service version resource attribute.
func WithServiceVersion(v string) TracerOption {
	return func(o *tracerOptions) {
		o.version = v
	}
}

// NewTracer creates a tracer from configuration. A disabled configuration
// yields a no-op tracer.
func NewTracer(ctx context.Context, cfg domainconfig.TelemetryConfig, opts ...TracerOption) (*Tracer, error) {
	if !cfg.Enabled {
		return NewNoopTracer(), nil
	}

	o := tracerOptions{writer: os.Stderr, version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "askagent"
	}

	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case domainconfig.ExporterOTLP:
		grpcOpts := []otlptracegrpc.Option{
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		}
		if cfg.Endpoint != "" {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
		}
		exp, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
		exporter = exp

	case domainconfig.ExporterStdout, "":
		exp, err := stdouttrace.New(stdouttrace.WithWriter(o.writer), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		exporter = exp

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}

	// Not merged with resource.Default() to avoid schema URL conflicts.
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(o.version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Tracer{
		tracer:   tp.Tracer(serviceName),
		provider: tp,
	}, nil
}

// NewTracerFromProvider creates a tracer on an existing provider.
func NewTracerFromProvider(tp trace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer("askagent")}
}

// NewNoopTracer creates a tracer that records nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer("askagent")}
}

// StartRun starts the root span of a question.
func (t *Tracer) StartRun(ctx context.Context, runID string, maxIterations int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanRun, trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.Int("run.max_iterations", maxIterations),
	))
}

// StartCompletion starts the span of one completion call.
func (t *Tracer) StartCompletion(ctx context.Context, provider string, iteration int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanCompletion,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("model.provider", provider),
			attribute.Int("run.iteration", iteration),
		),
	)
}

// StartSearch starts the span of one search call.
func (t *Tracer) StartSearch(ctx context.Context, provider string, query string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanSearch,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("search.provider", provider),
			attribute.String("search.query", query),
		),
	)
}

// EndSpan ends a span, marking it failed when err is non-nil.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Shutdown flushes and stops the exporter, if any.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
