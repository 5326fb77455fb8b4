package classify

import "errors"

// ErrInvalidClassifier is the panic value (wrapped) for malformed classifiers.
var ErrInvalidClassifier = errors.New("classify: invalid classifier")
