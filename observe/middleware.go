package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Middleware records one upstream call's span, metrics, and log line.
//
// The call site brackets its work between Start and Finish; OnRetry is fired
// as the retry loop backs off. Any telemetry failure is swallowed: recording
// diagnostics must never abort the call being recorded.
//
// Contract:
//   - Concurrency: safe for concurrent use; one Start/Finish pair per call.
//   - Errors: the observed error is recorded and never modified.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware from individual telemetry components.
// Nil components degrade to no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newTracer(nil)
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Start opens the span for one upstream call.
func (m *Middleware) Start(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	return m.tracer.StartSpan(ctx, meta)
}

// Finish closes the span and records metrics and a log line for the call's
// final outcome.
func (m *Middleware) Finish(ctx context.Context, span trace.Span, meta CallMeta, attempts int, elapsed time.Duration, err error) {
	m.tracer.EndSpan(span, err)
	m.metrics.RecordCall(ctx, meta, attempts, elapsed, err)

	logger := m.logger.WithCall(meta)
	fields := []Field{
		{Key: "attempts", Value: attempts},
		{Key: "duration_ms", Value: float64(elapsed.Milliseconds())},
	}

	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "upstream call failed", fields...)
	} else {
		logger.Info(ctx, "upstream call completed", fields...)
	}
}

// OnRetry records one retry of an in-flight call.
func (m *Middleware) OnRetry(ctx context.Context, meta CallMeta, attempt int, err error, delay time.Duration) {
	m.metrics.RecordRetry(ctx, meta, attempt)

	m.logger.WithCall(meta).Warn(ctx, "upstream call retrying",
		Field{Key: "attempt", Value: attempt},
		Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
		Field{Key: "error", Value: err.Error()},
	)
}
