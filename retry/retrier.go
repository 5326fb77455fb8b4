package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/retrier/classify"
	"github.com/jonwraymond/retrier/handler"
	"github.com/jonwraymond/retrier/limit"
	"github.com/jonwraymond/retrier/tracer"
)

// Default retries up to 3 attempts with a 1s exponential backoff, for at
// most 15s.
var Default = MustNew(
	WithMaxAttempts(3),
	WithBackoff(time.Second),
	WithTimeout(15*time.Second),
)

// Retrier runs operations with a fixed set of limits.
//
// A Retrier is immutable and safe for concurrent use. Limits configured on
// it are applied per invocation; attempt counters and deadlines are never
// shared between invocations.
//
// A Retrier without MaxAttempts and Timeout is unbounded.
type Retrier struct {
	cfg Config
}

// New creates a Retrier from opts. Limits set through options must be
// positive; the error wraps ErrInvalidConfig otherwise.
func New(opts ...Option) (*Retrier, error) {
	var s settings
	Options(opts...)(&s)
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &Retrier{cfg: s.cfg}, nil
}

// MustNew is New that panics on an invalid configuration.
func MustNew(opts ...Option) *Retrier {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Config returns the Retrier's configuration.
func (r *Retrier) Config() Config {
	return r.cfg
}

// WithTracer returns a copy of r that sends diagnostics to t.
func (r *Retrier) WithTracer(t tracer.Tracer) *Retrier {
	cfg := r.cfg
	cfg.Tracer = t
	return &Retrier{cfg: cfg}
}

// Do runs op until it succeeds or hs and the configured limits give up.
//
// Without handlers every failure is retried. One handler is used as is;
// several are tried in order and the first one that swallows a failure
// wins.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) (any, error), hs ...handler.Handler) (any, error) {
	chain, err := r.chain(hs)
	if err != nil {
		return nil, err
	}
	src := tracer.NewSource("retry.Retrier", r.cfg.Tracer)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			src.Tracef("Cancelled before attempt %d: %v", attempt, err)
			return nil, err
		}

		src.Tracef("Attempt %d", attempt)
		chain.BeforeAttempt()
		result, err := op(ctx)
		if err == nil {
			src.Tracef("Succeeded on attempt %d", attempt)
			if out, ok := chain.AfterSuccess(result); ok {
				return out, nil
			}
			return result, nil
		}

		out := chain.OnFailure(ctx, err)
		if !out.Swallowed() {
			src.Tracef("Giving up on attempt %d: %v", attempt, out.Err())
			return nil, out.Err()
		}
	}
}

// Run is Do for operations without a result.
func (r *Retrier) Run(ctx context.Context, op func(ctx context.Context) error, hs ...handler.Handler) error {
	_, err := r.Do(ctx, func(ctx context.Context) (any, error) {
		return nil, op(ctx)
	}, hs...)
	return err
}

// DoWith is Do with a typed result.
func DoWith[T any](ctx context.Context, r *Retrier, op func(ctx context.Context) (T, error), hs ...handler.Handler) (T, error) {
	var zero T
	result, err := r.Do(ctx, func(ctx context.Context) (any, error) {
		return op(ctx)
	}, hs...)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrResultType, result, zero)
	}
	return typed, nil
}

// Do runs op with the Default retrier.
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), hs ...handler.Handler) (T, error) {
	return DoWith(ctx, Default, op, hs...)
}

// Run runs op with the Default retrier.
func Run(ctx context.Context, op func(ctx context.Context) error, hs ...handler.Handler) error {
	return Default.Run(ctx, op, hs...)
}

// chain builds the handler pipeline of one invocation.
func (r *Retrier) chain(hs []handler.Handler) (handler.Handler, error) {
	user, err := userHandler(hs)
	if err != nil {
		return nil, err
	}

	t := r.cfg.Tracer
	var before []handler.Handler
	var deadline *limit.Deadline
	if r.cfg.Timeout > 0 {
		deadline = limit.NewDeadline(r.cfg.Timeout, limit.WithTracer(t))
		before = append(before, deadline)
	}
	if r.cfg.MaxAttempts > 0 {
		before = append(before, limit.NewCount(r.cfg.MaxAttempts, limit.WithTracer(t)))
	}
	if r.cfg.Backoff > 0 {
		before = append(before, limit.NewBackoff(r.cfg.Backoff, r.cfg.MaxBackoff, limit.WithTracer(t)))
	}

	var after []handler.Handler
	if deadline != nil {
		after = append(after, deadline)
	}

	return handler.AllMustPass(
		handler.AllMustPass(before...),
		handler.Bind(user, t),
		handler.AllMustPass(after...),
	), nil
}

func userHandler(hs []handler.Handler) (handler.Handler, error) {
	for i, h := range hs {
		if h == nil {
			return nil, fmt.Errorf("%w: handler %d", handler.ErrNilHandler, i)
		}
	}
	switch len(hs) {
	case 0:
		return classify.Any(), nil
	case 1:
		return hs[0], nil
	default:
		return handler.FirstMatch(hs...), nil
	}
}
