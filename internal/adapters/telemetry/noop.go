package telemetry

import (
	"context"

	"go.trai.ch/autoscan/internal/core/ports"
)

// NoOpTracer is a tracer that records nothing.
type NoOpTracer struct{}

// NewNoOpTracer creates a new NoOpTracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns ctx unchanged and a span that ignores every call.
func (t *NoOpTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noOpSpan{}
}

type noOpSpan struct{}

func (noOpSpan) End() {}
func (noOpSpan) RecordError(error) {}
func (noOpSpan) SetAttribute(string, any) {}
