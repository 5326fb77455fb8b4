// Package kind provides failure kinds: named descriptors with an explicit
// is-a relation that classifiers match against.
//
// Kinds form a hierarchy rooted at [Any]. A kind created without parents is
// a direct child of Any, so Any matches every failure.
//
//	var (
//	    Transient = kind.New("transient")
//	    Timeout   = kind.New("timeout", Transient)
//	)
//
//	err := kind.Errorf(Timeout, "dial %s", addr)
//	kind.Of(err).Is(Transient) // true
//
// Errors that do not implement [Kinded] are of kind Any. [Chain] walks a
// failure's wrapped causes from outermost to innermost, following
// Unwrap() error, Unwrap() []error and the Cause() error convention of
// github.com/pkg/errors.
package kind
