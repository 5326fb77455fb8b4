package handler

import "errors"

// Construction errors. Builders panic with these (possibly wrapped).
var (
	// ErrNilHandler indicates a nil handler was given to a composite.
	ErrNilHandler = errors.New("handler: handler is nil")

	// ErrNilFailure indicates Propagate was called with a nil error.
	ErrNilFailure = errors.New("handler: propagated failure is nil")
)
