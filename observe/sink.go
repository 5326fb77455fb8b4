package observe

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/retrier/tracer"
)

// NewTraceSink returns a tracer.Tracer that logs every diagnostic line at
// debug level under the key "trace". ctx is passed to the logger.
func NewTraceSink(ctx context.Context, logger Logger) tracer.Tracer {
	if logger == nil {
		return tracer.Nop
	}
	return tracer.Func(func(msg string) {
		logger.Debug(ctx, "retry trace", Field{Key: "trace", Value: msg})
	})
}

// SpanSink returns a tracer.Tracer that adds every diagnostic line to span
// as an event.
func SpanSink(span trace.Span) tracer.Tracer {
	if span == nil || !span.IsRecording() {
		return tracer.Nop
	}
	return tracer.Func(func(msg string) {
		span.AddEvent(msg)
	})
}
