package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache operation metrics. The method set matches the cache
// engine's Recorder hook, so a Metrics value plugs straight into it.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordOp records one cache operation with its outcome and duration.
	RecordOp(ctx context.Context, op, outcome string, elapsed time.Duration)

	// RecordEvictions records entries removed by cleanup.
	RecordEvictions(ctx context.Context, evicted int64)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	opsTotal      metric.Int64Counter
	durationHist  metric.Float64Histogram
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	invalidations metric.Int64Counter
	evictions     metric.Int64Counter
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	opsTotal, err := meter.Int64Counter(
		"cache.ops.total",
		metric.WithDescription("Total number of cache operations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"cache.op.duration_ms",
		metric.WithDescription("Cache operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	hits, err := meter.Int64Counter(
		"cache.hits",
		metric.WithDescription("Verified cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"cache.misses",
		metric.WithDescription("Cache misses, including invalidated entries"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	invalidations, err := meter.Int64Counter(
		"cache.invalidations",
		metric.WithDescription("Entries purged as stale, expired or corrupt"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		"cache.evictions",
		metric.WithDescription("Entries evicted by size-budget cleanup"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		opsTotal:      opsTotal,
		durationHist:  durationHist,
		hits:          hits,
		misses:        misses,
		invalidations: invalidations,
		evictions:     evictions,
	}, nil
}

// RecordOp records one cache operation.
func (m *metricsImpl) RecordOp(ctx context.Context, op, outcome string, elapsed time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("cache.op", op),
		attribute.String("cache.outcome", outcome),
	)

	m.opsTotal.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(elapsed.Milliseconds()), opt)

	switch outcome {
	case "hit":
		m.hits.Add(ctx, 1)
	case "miss":
		m.misses.Add(ctx, 1)
	case "stale", "expired", "corrupt":
		m.misses.Add(ctx, 1)
		m.invalidations.Add(ctx, 1)
	}
}

// RecordEvictions records entries removed by cleanup.
func (m *metricsImpl) RecordEvictions(ctx context.Context, evicted int64) {
	m.evictions.Add(ctx, evicted)
}

// NoopMetrics is a metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) RecordOp(context.Context, string, string, time.Duration) {}
func (NoopMetrics) RecordEvictions(context.Context, int64)                  {}

var _ Metrics = (*metricsImpl)(nil)
var _ Metrics = NoopMetrics{}
