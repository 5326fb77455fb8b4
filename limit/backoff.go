package limit

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/retrier/handler"
	"github.com/jonwraymond/retrier/tracer"
)

// Backoff sleeps between attempts with exponentially growing delays.
// Delays have millisecond granularity.
type Backoff struct {
	handler.Base

	initialMs int64
	maxMs     int64 // 0: unbounded
	attempts  atomic.Int64
	src       tracer.Source
}

// NewBackoff creates a gate sleeping initial*2^(n-1) after the n-th failed
// attempt. A zero maxDelay leaves delays unbounded; otherwise they are
// clamped to maxDelay. It panics unless initial is at least a millisecond and
// maxDelay is zero or at least a millisecond.
func NewBackoff(initial, maxDelay time.Duration, opts ...Option) *Backoff {
	if initial < time.Millisecond {
		panic(fmt.Errorf("%w: initial delay must be at least 1ms, got %s", ErrInvalidLimit, initial))
	}
	if maxDelay != 0 && maxDelay < time.Millisecond {
		panic(fmt.Errorf("%w: max delay must be at least 1ms, got %s", ErrInvalidLimit, maxDelay))
	}
	return &Backoff{
		initialMs: initial.Milliseconds(),
		maxMs:     maxDelay.Milliseconds(),
		src:       applyOptions("limit.Backoff", opts),
	}
}

// Attempts returns the number of attempts started so far.
func (b *Backoff) Attempts() int { return int(b.attempts.Load()) }

// Delay returns the sleep following the n-th failed attempt.
func (b *Backoff) Delay(n int) time.Duration {
	if n < 1 {
		return 0
	}

	ms := int64(math.MaxInt64)
	if shift := n - 1; shift < 63 && b.initialMs <= math.MaxInt64>>shift {
		ms = b.initialMs << shift
	}
	if b.maxMs > 0 && ms > b.maxMs {
		ms = b.maxMs
	}

	if ms > int64(math.MaxInt64/time.Millisecond) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

// BeforeAttempt counts the attempt.
func (b *Backoff) BeforeAttempt() {
	b.attempts.Add(1)
}

// OnFailure sleeps for the current delay. It propagates err only if ctx is
// done before the sleep completes.
func (b *Backoff) OnFailure(ctx context.Context, err error) handler.Outcome {
	d := b.Delay(int(b.attempts.Load()))
	b.src.Tracef("Sleeping for %s", d)
	if serr := sleep(ctx, d); serr != nil {
		b.src.Tracef("Sleep interrupted: %v", serr)
		return handler.Propagate(err)
	}
	return handler.Swallow()
}

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ handler.Handler = (*Backoff)(nil)
