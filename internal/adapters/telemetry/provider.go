package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/forge/internal/core/ports"
)

// InstrumentationName names the forge tracer.
const InstrumentationName = "go.trai.ch/forge"

// KindAttribute carries the ports.SpanConfig kind on every span.
const KindAttribute = "forge.kind"

// Option configures an OTelTracer.
type Option func(*options)

type options struct {
	processors []sdktrace.SpanProcessor
	chunkSize  int
}

// WithSpanProcessor registers an additional span processor.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) {
		o.processors = append(o.processors, sp)
	}
}

// WithChunkSize sets the size at which buffered span output is forwarded.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// OTelTracer implements ports.Tracer on an OpenTelemetry SDK provider.
// Span output is coalesced and forwarded to the renderer.
type OTelTracer struct {
	provider  *sdktrace.TracerProvider
	tracer    trace.Tracer
	renderer  ports.Renderer
	chunkSize int
}

// NewOTelTracer creates a tracer whose span lifecycle is reported to renderer.
func NewOTelTracer(renderer ports.Renderer, opts ...Option) *OTelTracer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	providerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSpanProcessor(NewBridge(renderer)),
	}
	for _, sp := range o.processors {
		providerOpts = append(providerOpts, sdktrace.WithSpanProcessor(sp))
	}
	provider := sdktrace.NewTracerProvider(providerOpts...)

	return &OTelTracer{
		provider:  provider,
		tracer:    provider.Tracer(InstrumentationName),
		renderer:  renderer,
		chunkSize: o.chunkSize,
	}
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var startOpts []trace.SpanStartOption
	if cfg.Kind != "" {
		startOpts = append(startOpts, trace.WithAttributes(attribute.String(KindAttribute, cfg.Kind)))
	}
	ctx, span := t.tracer.Start(ctx, name, startOpts...)

	s := &OTelSpan{span: span}
	if t.renderer != nil {
		spanID := span.SpanContext().SpanID().String()
		s.output = NewCoalescer(t.chunkSize, 0, func(data []byte) {
			t.renderer.OnTargetLog(spanID, data)
		})
	}
	return ctx, s
}

// Shutdown ends the provider, flushing the renderer.
func (t *OTelTracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// OTelSpan implements ports.Span on an OpenTelemetry span.
type OTelSpan struct {
	span   trace.Span
	output *Coalescer
}

// End flushes buffered output and completes the span.
func (s *OTelSpan) End() {
	if s.output != nil {
		_ = s.output.Close()
	}
	s.span.End()
}

// RecordError records err and marks the span failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write forwards output to the renderer, or records it as a span event without one.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.output != nil {
		return s.output.Write(p)
	}
	s.span.AddEvent("output", trace.WithAttributes(attribute.String("data", string(p))))
	return len(p), nil
}
