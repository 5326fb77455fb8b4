package handler

import (
	"context"
	"fmt"

	"github.com/jonwraymond/retrier/tracer"
)

// Strategy selects how a Composite combines the failure hooks of its children.
type Strategy int

const (
	// StrategyAllMustPass propagates the first propagated child outcome.
	StrategyAllMustPass Strategy = iota
	// StrategyFirstMatch swallows on the first swallowing child.
	StrategyFirstMatch
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyAllMustPass:
		return "all-must-pass"
	case StrategyFirstMatch:
		return "first-match"
	default:
		return "unknown"
	}
}

// Composite is an ordered list of handlers acting as one.
type Composite struct {
	strategy Strategy
	handlers []Handler
}

// AllMustPass combines handlers so that a failure is swallowed only when
// every child swallows it. Children after the first propagating one are not
// consulted.
//
// AllMustPass panics if a handler is nil.
func AllMustPass(handlers ...Handler) *Composite {
	return newComposite(StrategyAllMustPass, handlers)
}

// FirstMatch combines handlers so that the first child swallowing a failure
// wins. When every child propagates, the failure given to the composite is
// propagated, not a child's error.
//
// FirstMatch panics if a handler is nil.
func FirstMatch(handlers ...Handler) *Composite {
	return newComposite(StrategyFirstMatch, handlers)
}

func newComposite(strategy Strategy, handlers []Handler) *Composite {
	for i, h := range handlers {
		if h == nil {
			panic(fmt.Errorf("%w: %s child %d", ErrNilHandler, strategy, i))
		}
	}
	hs := make([]Handler, len(handlers))
	copy(hs, handlers)
	return &Composite{strategy: strategy, handlers: hs}
}

// Strategy returns the failure combination strategy.
func (c *Composite) Strategy() Strategy { return c.strategy }

// Len returns the number of children.
func (c *Composite) Len() int { return len(c.handlers) }

// Handlers returns a copy of the children.
func (c *Composite) Handlers() []Handler {
	hs := make([]Handler, len(c.handlers))
	copy(hs, c.handlers)
	return hs
}

// BeforeAttempt runs every child in order.
func (c *Composite) BeforeAttempt() {
	for _, h := range c.handlers {
		h.BeforeAttempt()
	}
}

// AfterSuccess returns the result of the first child that transforms it.
func (c *Composite) AfterSuccess(result any) (any, bool) {
	for _, h := range c.handlers {
		if out, ok := h.AfterSuccess(result); ok {
			return out, true
		}
	}
	return result, false
}

// OnFailure combines the children's outcomes according to the strategy.
func (c *Composite) OnFailure(ctx context.Context, err error) Outcome {
	if c.strategy == StrategyFirstMatch {
		for _, h := range c.handlers {
			if h.OnFailure(ctx, err).Swallowed() {
				return Swallow()
			}
		}
		return Propagate(err)
	}

	for _, h := range c.handlers {
		if out := h.OnFailure(ctx, err); !out.Swallowed() {
			return out
		}
	}
	return Swallow()
}

// WithTracer returns a composite whose children are bound to t.
func (c *Composite) WithTracer(t tracer.Tracer) Handler {
	hs := make([]Handler, len(c.handlers))
	for i, h := range c.handlers {
		hs[i] = Bind(h, t)
	}
	return &Composite{strategy: c.strategy, handlers: hs}
}

var _ Traceable = (*Composite)(nil)
