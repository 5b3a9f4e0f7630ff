package observe

import (
	"context"
	"time"
)

// ComputeFunc is the signature of the expensive computation the cache
// fronts. It mirrors the cache package's compute signature without
// importing it; observe stays a pure instrumentation library.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Recorder forwards cache engine telemetry to metrics and the structured
// logger. Its method set satisfies the engine's Recorder hook.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: recording is best-effort and never panics.
type Recorder struct {
	metrics Metrics
	logger  Logger
	store   string
}

// NewRecorder creates a recorder from an Observer. The store name is
// attached to every log line.
func NewRecorder(obs Observer, store string) (*Recorder, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return &Recorder{metrics: metrics, logger: obs.Logger(), store: store}, nil
}

// RecordOp records one cache operation with its outcome and duration.
func (r *Recorder) RecordOp(ctx context.Context, op, outcome string, elapsed time.Duration) {
	r.metrics.RecordOp(ctx, op, outcome, elapsed)

	r.logger.WithOp(OpMeta{Op: op, Store: r.store}).Debug(ctx, "cache operation",
		Field{Key: "outcome", Value: outcome},
		Field{Key: "duration_ms", Value: float64(elapsed.Milliseconds())},
	)
}

// RecordEvictions records entries removed by cleanup.
func (r *Recorder) RecordEvictions(ctx context.Context, evicted int64) {
	r.metrics.RecordEvictions(ctx, evicted)

	r.logger.WithOp(OpMeta{Op: "cleanup", Store: r.store}).Info(ctx, "evicted cache entries",
		Field{Key: "evicted", Value: evicted},
	)
}

// Middleware wraps compute functions with tracing, metrics and logging.
// The compute is the expensive part a cache miss triggers; it is the span
// worth recording.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// WrapCompute wraps fn with a span, a duration metric and a log line.
// Errors from fn are recorded and propagated unchanged.
func (m *Middleware) WrapCompute(meta OpMeta, fn ComputeFunc) ComputeFunc {
	return func(ctx context.Context) ([]byte, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		out, err := fn(ctx)

		elapsed := time.Since(start)
		m.tracer.EndSpan(span, err)

		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		m.metrics.RecordOp(ctx, meta.Op, outcome, elapsed)

		opLogger := m.logger.WithOp(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(elapsed.Milliseconds())},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			opLogger.Error(ctx, "computation failed", fields...)
		} else {
			opLogger.Info(ctx, "computation completed", fields...)
		}

		return out, err
	}
}
