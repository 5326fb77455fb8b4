package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Operation identifies a retried operation for telemetry purposes.
type Operation struct {
	Namespace string // Operation namespace (may be empty)
	Name      string // Operation name (required)
}

// SpanName returns the deterministic span name for this operation.
// Format: retry.<namespace>.<name> or retry.<name>
func (o Operation) SpanName() string {
	return "retry." + o.ID()
}

// ID returns the fully qualified operation identifier.
func (o Operation) ID() string {
	if o.Namespace != "" {
		return o.Namespace + "." + o.Name
	}
	return o.Name
}

// Validate reports ErrMissingOperationName for an unnamed operation.
func (o Operation) Validate() error {
	if o.Name == "" {
		return ErrMissingOperationName
	}
	return nil
}

func (o Operation) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("retry.operation", o.ID()),
		attribute.String("retry.name", o.Name),
	}
	if o.Namespace != "" {
		attrs = append(attrs, attribute.String("retry.namespace", o.Namespace))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with retry-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a retry invocation.
	StartSpan(ctx context.Context, op Operation) (context.Context, trace.Span)

	// EndSpan ends the span, recording the attempt count and any error.
	EndSpan(span trace.Span, attempts int, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with operation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, op Operation) (context.Context, trace.Span) {
	attrs := append(op.attributes(), attribute.Bool("retry.error", false))
	return t.tracer.Start(ctx, op.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, attempts int, err error) {
	span.SetAttributes(attribute.Int("retry.attempts", attempts))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("retry.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, op Operation) (context.Context, trace.Span) {
	return t.noop.Start(ctx, op.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, attempts int, err error) {
	span.End()
}
