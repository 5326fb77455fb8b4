package kind

// causer is the github.com/pkg/errors cause convention.
type causer interface {
	Cause() error
}

// Chain returns the kinds of err and of every failure it wraps, outermost
// first. Multi-errors are walked depth first in order. Chain returns nil for
// a nil error.
func Chain(err error) []*Kind {
	var kinds []*Kind
	walk(err, func(e error) {
		kinds = append(kinds, Of(e))
	})
	return kinds
}

// Causes returns err followed by every failure it wraps, in the order
// Chain reports their kinds.
func Causes(err error) []error {
	var errs []error
	walk(err, func(e error) {
		errs = append(errs, e)
	})
	return errs
}

func walk(err error, visit func(error)) {
	for err != nil {
		visit(err)
		switch e := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner, visit)
			}
			return
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case causer:
			err = e.Cause()
		default:
			return
		}
	}
}
