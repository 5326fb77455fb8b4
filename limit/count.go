package limit

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jonwraymond/retrier/handler"
	"github.com/jonwraymond/retrier/tracer"
)

// Count limits the number of attempts.
type Count struct {
	handler.Base

	max      int
	attempts atomic.Int64
	src      tracer.Source
}

// NewCount creates a gate allowing maxAttempts attempts in total.
// It panics unless maxAttempts is positive.
func NewCount(maxAttempts int, opts ...Option) *Count {
	if maxAttempts <= 0 {
		panic(fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidLimit, maxAttempts))
	}
	return &Count{
		max: maxAttempts,
		src: applyOptions("limit.Count", opts),
	}
}

// Max returns the configured maximum.
func (c *Count) Max() int { return c.max }

// Attempts returns the number of attempts started so far.
func (c *Count) Attempts() int { return int(c.attempts.Load()) }

// BeforeAttempt counts the attempt.
func (c *Count) BeforeAttempt() {
	c.attempts.Add(1)
}

// OnFailure propagates err once the maximum is reached.
func (c *Count) OnFailure(_ context.Context, err error) handler.Outcome {
	n := c.attempts.Load()
	if n >= int64(c.max) {
		c.src.Tracef("Exceeded Max Retries: %d", c.max)
		return handler.Propagate(err)
	}
	c.src.Tracef("Retry Count: %d/%d", n+1, c.max)
	return handler.Swallow()
}

var _ handler.Handler = (*Count)(nil)
