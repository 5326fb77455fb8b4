package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records retry invocation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordInvocation records one retry invocation with its attempt count,
	// total duration and final error.
	RecordInvocation(ctx context.Context, op Operation, attempts int, duration time.Duration, err error)
}

type metricsImpl struct {
	invocations  metric.Int64Counter
	attempts     metric.Int64Counter
	failures     metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates Metrics reporting to the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	invocations, err := meter.Int64Counter(
		"retry.invocations",
		metric.WithDescription("Total number of retry invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	attempts, err := meter.Int64Counter(
		"retry.attempts",
		metric.WithDescription("Total number of operation attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"retry.failures",
		metric.WithDescription("Total number of invocations that gave up"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"retry.duration_ms",
		metric.WithDescription("Invocation duration including backoff, in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		invocations:  invocations,
		attempts:     attempts,
		failures:     failures,
		durationHist: durationHist,
	}, nil
}

// RecordInvocation records metrics for one invocation.
func (m *metricsImpl) RecordInvocation(ctx context.Context, op Operation, attempts int, duration time.Duration, err error) {
	attrs := op.attributes()
	attrs = append(attrs, attribute.Bool("retry.error", err != nil))
	opt := metric.WithAttributes(attrs...)

	m.invocations.Add(ctx, 1, opt)
	m.attempts.Add(ctx, int64(attempts), opt)
	if err != nil {
		m.failures.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

type noopMetrics struct{}

func (m *noopMetrics) RecordInvocation(ctx context.Context, op Operation, attempts int, duration time.Duration, err error) {
}
