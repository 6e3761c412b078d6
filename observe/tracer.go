package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CallMeta identifies one upstream call for telemetry purposes.
type CallMeta struct {
	Profile string // operation profile name (required)
	Label   string // free-form operation label, diagnostics only
}

// SpanName returns the deterministic span name for this call.
// Format: upstream.call.<profile>
func (m CallMeta) SpanName() string {
	return "upstream.call." + m.Profile
}

// Attributes returns the OTel attributes identifying this call.
func (m CallMeta) Attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("call.profile", m.Profile),
	}
	if m.Label != "" {
		attrs = append(attrs, attribute.String("call.label", m.Label))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with call-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for an upstream call.
	StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer backed by the given OTel tracer. A nil tracer
// yields a no-op implementation.
func NewTracer(tracer trace.Tracer) Tracer {
	return newTracer(tracer)
}

func newTracer(tracer trace.Tracer) *tracerImpl {
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer("noop")
	}
	return &tracerImpl{tracer: tracer}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(meta.Attributes()...),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
