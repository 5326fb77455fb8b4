package retry

import "errors"

// Sentinel errors for retry configuration and results.
var (
	// ErrInvalidConfig indicates a Config failed validation.
	ErrInvalidConfig = errors.New("retry: invalid config")

	// ErrResultType indicates a success handler replaced the result with a
	// value of the wrong type.
	ErrResultType = errors.New("retry: unexpected result type")
)
