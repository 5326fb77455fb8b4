package handler

import (
	"context"
	"fmt"

	"github.com/jonwraymond/retrier/tracer"
)

// Handler observes the attempts of a retried operation.
//
// Contract:
//   - BeforeAttempt runs once before every attempt.
//   - AfterSuccess may replace a successful result; it reports whether it did.
//   - OnFailure decides whether the failure ends the retry loop. A propagated
//     outcome carries the error the caller receives.
//   - Concurrency: a handler instance serves one retry invocation at a time.
type Handler interface {
	BeforeAttempt()
	AfterSuccess(result any) (any, bool)
	OnFailure(ctx context.Context, err error) Outcome
}

// Traceable is implemented by handlers that can be bound to a tracer.
// WithTracer returns a new handler and leaves the receiver untouched.
type Traceable interface {
	WithTracer(t tracer.Tracer) Handler
}

// Bind returns h bound to t when h is Traceable, otherwise h itself.
func Bind(h Handler, t tracer.Tracer) Handler {
	if t == nil {
		return h
	}
	if th, ok := h.(Traceable); ok {
		return th.WithTracer(t)
	}
	return h
}

// Base implements the success-path hooks as no-ops. Embed it in handlers
// that only act on failures.
type Base struct{}

// BeforeAttempt does nothing.
func (Base) BeforeAttempt() {}

// AfterSuccess returns result untransformed.
func (Base) AfterSuccess(result any) (any, bool) { return result, false }

// Outcome is the decision of a failure hook.
type Outcome struct {
	err error
}

// Swallow continues the retry loop.
func Swallow() Outcome { return Outcome{} }

// Propagate ends the retry loop with err. It panics if err is nil.
func Propagate(err error) Outcome {
	if err == nil {
		panic(ErrNilFailure)
	}
	return Outcome{err: err}
}

// Swallowed reports whether the failure was consumed.
func (o Outcome) Swallowed() bool { return o.err == nil }

// Err returns the propagated error, or nil when swallowed.
func (o Outcome) Err() error { return o.err }

func (o Outcome) String() string {
	if o.err == nil {
		return "swallowed"
	}
	return fmt.Sprintf("propagated(%v)", o.err)
}

// Func adapts a failure function to a Handler.
type Func func(ctx context.Context, err error) Outcome

// BeforeAttempt does nothing.
func (Func) BeforeAttempt() {}

// AfterSuccess returns result untransformed.
func (Func) AfterSuccess(result any) (any, bool) { return result, false }

// OnFailure calls f.
func (f Func) OnFailure(ctx context.Context, err error) Outcome { return f(ctx, err) }

// OnSuccess returns a handler that rewrites successful results with fn and
// propagates every failure.
func OnSuccess(fn func(result any) (any, bool)) Handler {
	if fn == nil {
		panic(fmt.Errorf("%w: success function is nil", ErrNilHandler))
	}
	return successFunc(fn)
}

type successFunc func(result any) (any, bool)

func (successFunc) BeforeAttempt() {}

func (f successFunc) AfterSuccess(result any) (any, bool) { return f(result) }

func (successFunc) OnFailure(_ context.Context, err error) Outcome { return Propagate(err) }

var (
	_ Handler = Func(nil)
	_ Handler = successFunc(nil)
)
