// Package classify decides which failures are worth retrying.
//
// A [Classifier] recognizes a set of failure kinds. A failure matches when
// its kind is one of them or a descendant of one of them, the way a catch
// block catches subclasses. Matching failures are swallowed, optionally
// after running a remedy; everything else propagates unchanged.
//
//	retry.Run(ctx, op,
//	    classify.On(ErrKindTimeout, ErrKindUnavailable),
//	    classify.OnNestedThen(auth.KindTokenExpired, refresher.Refresh),
//	)
package classify

import (
	"context"
	"fmt"

	"github.com/jonwraymond/retrier/handler"
	"github.com/jonwraymond/retrier/kind"
	"github.com/jonwraymond/retrier/tracer"
)

// Remedy runs when a failure matches, before the next attempt.
// An error from the remedy propagates as is.
type Remedy func(ctx context.Context) error

// Classifier swallows failures of recognized kinds.
type Classifier struct {
	handler.Base

	kinds  []*kind.Kind
	nested bool
	remedy Remedy
	src    tracer.Source
}

// On recognizes failures whose own kind descends from one of kinds.
// With no kinds nothing is recognized. On panics if a kind is nil.
func On(kinds ...*kind.Kind) *Classifier {
	return newClassifier(false, kinds, nil)
}

// OnNested recognizes failures that wrap, at any depth, a failure whose kind
// descends from one of kinds. It panics if a kind is nil.
func OnNested(kinds ...*kind.Kind) *Classifier {
	return newClassifier(true, kinds, nil)
}

// OnThen is On for a single kind, running remedy on every match.
// It panics if k or remedy is nil.
func OnThen(k *kind.Kind, remedy Remedy) *Classifier {
	return newClassifier(false, []*kind.Kind{k}, mustRemedy(remedy))
}

// OnNestedThen is OnNested for a single kind, running remedy on every match.
// It panics if k or remedy is nil.
func OnNestedThen(k *kind.Kind, remedy Remedy) *Classifier {
	return newClassifier(true, []*kind.Kind{k}, mustRemedy(remedy))
}

// Any recognizes every failure.
func Any() *Classifier {
	return On(kind.Any)
}

func mustRemedy(r Remedy) Remedy {
	if r == nil {
		panic(fmt.Errorf("%w: remedy is nil", ErrInvalidClassifier))
	}
	return r
}

func newClassifier(nested bool, kinds []*kind.Kind, remedy Remedy) *Classifier {
	for i, k := range kinds {
		if k == nil {
			panic(fmt.Errorf("%w: kind %d is nil", ErrInvalidClassifier, i))
		}
	}
	ks := make([]*kind.Kind, len(kinds))
	copy(ks, kinds)
	return &Classifier{
		kinds:  ks,
		nested: nested,
		remedy: remedy,
		src:    tracer.NewSource("classify.Classifier", nil),
	}
}

// Kinds returns the recognized kinds.
func (c *Classifier) Kinds() []*kind.Kind {
	ks := make([]*kind.Kind, len(c.kinds))
	copy(ks, c.kinds)
	return ks
}

// Nested reports whether wrapped causes are inspected.
func (c *Classifier) Nested() bool { return c.nested }

// Match returns the first recognized kind matching err.
func (c *Classifier) Match(err error) (*kind.Kind, bool) {
	if err == nil {
		return nil, false
	}

	var candidates []*kind.Kind
	if c.nested {
		candidates = kind.Chain(err)
	} else {
		candidates = []*kind.Kind{kind.Of(err)}
	}

	for _, cand := range candidates {
		for _, k := range c.kinds {
			if cand.Is(k) {
				return k, true
			}
		}
	}
	return nil, false
}

// OnFailure swallows recognized failures after running the remedy, if any.
func (c *Classifier) OnFailure(ctx context.Context, err error) handler.Outcome {
	k, ok := c.Match(err)
	if !ok {
		c.src.Tracef("Unknown failure: %v", err)
		return handler.Propagate(err)
	}

	c.src.Tracef("Caught failure '%v' by '%s'", err, k)
	if c.remedy != nil {
		if rerr := c.remedy(ctx); rerr != nil {
			c.src.Tracef("Remedy failed: %v", rerr)
			return handler.Propagate(rerr)
		}
	}
	return handler.Swallow()
}

// WithTracer returns a copy of c sending diagnostics to t.
func (c *Classifier) WithTracer(t tracer.Tracer) handler.Handler {
	cp := *c
	cp.src = c.src.With(t)
	return &cp
}

var (
	_ handler.Handler   = (*Classifier)(nil)
	_ handler.Traceable = (*Classifier)(nil)
)
