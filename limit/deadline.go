package limit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/retrier/handler"
	"github.com/jonwraymond/retrier/tracer"
)

// Deadline limits the time spent retrying, measured from the first attempt.
type Deadline struct {
	handler.Base

	timeout time.Duration
	start   atomic.Pointer[time.Time]
	src     tracer.Source
}

// NewDeadline creates a gate that propagates failures occurring more than
// timeout after the first attempt started. It panics unless timeout is
// positive.
func NewDeadline(timeout time.Duration, opts ...Option) *Deadline {
	if timeout <= 0 {
		panic(fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidLimit, timeout))
	}
	return &Deadline{
		timeout: timeout,
		src:     applyOptions("limit.Deadline", opts),
	}
}

// Timeout returns the configured timeout.
func (d *Deadline) Timeout() time.Duration { return d.timeout }

// Started returns the time of the first attempt, if any.
func (d *Deadline) Started() (time.Time, bool) {
	if p := d.start.Load(); p != nil {
		return *p, true
	}
	return time.Time{}, false
}

// BeforeAttempt records the start time on the first attempt only.
func (d *Deadline) BeforeAttempt() {
	d.arm()
}

// OnFailure propagates err once the timeout has elapsed.
func (d *Deadline) OnFailure(_ context.Context, err error) handler.Outcome {
	elapsed := time.Since(d.arm())
	if elapsed > d.timeout {
		d.src.Tracef("Exceeded Timeout: %s", d.timeout)
		return handler.Propagate(err)
	}
	d.src.Tracef("Still have %s to retry", d.timeout-elapsed)
	return handler.Swallow()
}

// arm sets the start time if unset and returns the effective start.
func (d *Deadline) arm() time.Time {
	if p := d.start.Load(); p != nil {
		return *p
	}
	now := time.Now()
	if d.start.CompareAndSwap(nil, &now) {
		return now
	}
	return *d.start.Load()
}

var _ handler.Handler = (*Deadline)(nil)
