package kind

import "errors"

// ErrInvalidKind is the panic value (wrapped) for malformed kind definitions.
var ErrInvalidKind = errors.New("kind: invalid kind")
