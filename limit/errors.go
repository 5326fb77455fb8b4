package limit

import "errors"

// ErrInvalidLimit is the panic value (wrapped) for invalid gate parameters.
var ErrInvalidLimit = errors.New("limit: invalid limit")
