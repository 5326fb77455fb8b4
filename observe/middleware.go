package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/retrier/handler"
	"github.com/jonwraymond/retrier/retry"
	"github.com/jonwraymond/retrier/tracer"
)

// Middleware wraps retry invocations with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: safe for concurrent use; every invocation gets its own span.
//   - Context: the span context is passed to the operation.
//   - Errors: errors from the invocation are recorded and returned unchanged.
//   - Ownership: results are passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components. Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
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

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Do runs fn through r inside a span named after op.
//
// Retry diagnostics go to the span as events, to the logger at debug level
// and to the tracer already configured on r.
func (m *Middleware) Do(ctx context.Context, op Operation, r *retry.Retrier, fn func(ctx context.Context) (any, error), hs ...handler.Handler) (any, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNilRetrier
	}

	ctx, span := m.tracer.StartSpan(ctx, op)
	logger := m.logger.WithOperation(op)

	bound := r.WithTracer(tracer.Multi(
		r.Config().Tracer,
		SpanSink(span),
		NewTraceSink(ctx, logger),
	))

	attempts := 0
	start := time.Now()
	result, err := bound.Do(ctx, func(ctx context.Context) (any, error) {
		attempts++
		return fn(ctx)
	}, hs...)
	duration := time.Since(start)

	m.tracer.EndSpan(span, attempts, err)
	m.metrics.RecordInvocation(ctx, op, attempts, duration, err)

	fields := []Field{
		{Key: "attempts", Value: attempts},
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	}
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "retry gave up", fields...)
	} else {
		logger.Info(ctx, "retry completed", fields...)
	}

	return result, err
}

// Run is Do for operations without a result.
func (m *Middleware) Run(ctx context.Context, op Operation, r *retry.Retrier, fn func(ctx context.Context) error, hs ...handler.Handler) error {
	_, err := m.Do(ctx, op, r, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	}, hs...)
	return err
}
