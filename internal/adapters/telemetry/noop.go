package telemetry

import (
	"context"

	"go.trai.ch/forge/internal/core/ports"
)

// NoopTracer discards all spans.
type NoopTracer struct{}

// NewNoopTracer creates a NoopTracer.
func NewNoopTracer() *NoopTracer {
	return &NoopTracer{}
}

// Start returns ctx and a NoopSpan.
func (t *NoopTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, NoopSpan{}
}

// NoopSpan discards output and attributes.
type NoopSpan struct{}

// End does nothing.
func (NoopSpan) End() {}

// RecordError does nothing.
func (NoopSpan) RecordError(error) {}

// SetAttribute does nothing.
func (NoopSpan) SetAttribute(string, any) {}

// Write reports p as written.
func (NoopSpan) Write(p []byte) (int, error) { return len(p), nil }
