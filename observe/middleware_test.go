package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestMiddleware(t *testing.T) (*Middleware, *tracetest.SpanRecorder, *sdkmetric.ManualReader, *bytes.Buffer) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := newMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	return NewMiddleware(newTracer(tp.Tracer("test")), metrics, logger), recorder, reader, &buf
}

func TestMiddleware_SuccessfulCall(t *testing.T) {
	mw, recorder, reader, buf := newTestMiddleware(t)
	meta := CallMeta{Profile: "quick", Label: "ping"}

	ctx, span := mw.Start(context.Background(), meta)
	mw.Finish(ctx, span, meta, 1, 50*time.Millisecond, nil)

	if got := len(recorder.Ended()); got != 1 {
		t.Errorf("recorded %d spans, want 1", got)
	}
	if got := collectSum(t, reader, "upcall.exec.total"); got != 1 {
		t.Errorf("upcall.exec.total = %d, want 1", got)
	}
	if !strings.Contains(buf.String(), "upstream call completed") {
		t.Errorf("log output missing completion line: %s", buf.String())
	}
}

func TestMiddleware_FailedCall(t *testing.T) {
	mw, _, reader, buf := newTestMiddleware(t)
	meta := CallMeta{Profile: "content-generation"}

	ctx, span := mw.Start(context.Background(), meta)
	mw.Finish(ctx, span, meta, 3, time.Second, errors.New("rate_limit_exceeded"))

	if got := collectSum(t, reader, "upcall.exec.errors"); got != 1 {
		t.Errorf("upcall.exec.errors = %d, want 1", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if v, _ := entry["msg"].(string); v != "upstream call failed" {
		t.Errorf("msg = %v, want upstream call failed", entry["msg"])
	}
	if v, _ := entry["attempts"].(float64); v != 3 {
		t.Errorf("attempts = %v, want 3", entry["attempts"])
	}
}

func TestMiddleware_OnRetry(t *testing.T) {
	mw, _, reader, buf := newTestMiddleware(t)
	meta := CallMeta{Profile: "quick"}

	mw.OnRetry(context.Background(), meta, 1, errors.New("timeout"), 100*time.Millisecond)

	if got := collectSum(t, reader, "upcall.exec.retries"); got != 1 {
		t.Errorf("upcall.exec.retries = %d, want 1", got)
	}
	if !strings.Contains(buf.String(), "upstream call retrying") {
		t.Errorf("log output missing retry line: %s", buf.String())
	}
}

func TestNewMiddleware_NilComponentsDegrade(t *testing.T) {
	mw := NewMiddleware(nil, nil, nil)
	meta := CallMeta{Profile: "quick"}

	ctx, span := mw.Start(context.Background(), meta)
	mw.Finish(ctx, span, meta, 1, time.Millisecond, nil)
	mw.OnRetry(ctx, meta, 1, errors.New("timeout"), time.Millisecond)
}

func TestMiddlewareFromObserver(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("MiddlewareFromObserver(nil) error = %v, want ErrNilObserver", err)
	}

	obs, err := NewObserver(context.Background(), Config{ServiceName: "upcall"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(context.Background())

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver() error = %v", err)
	}
	if mw == nil {
		t.Fatal("MiddlewareFromObserver() = nil middleware")
	}
}
