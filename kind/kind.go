package kind

import (
	"fmt"
)

// Kind is a failure descriptor. Kinds are compared by identity.
type Kind struct {
	name    string
	parents []*Kind
}

// Any is the root kind. Every kind is an Any.
var Any = &Kind{name: "any"}

// New creates a kind with the given parents. With no parents the kind is a
// direct child of Any.
//
// New panics if name is empty or a parent is nil.
func New(name string, parents ...*Kind) *Kind {
	if name == "" {
		panic(fmt.Errorf("%w: name is empty", ErrInvalidKind))
	}
	for i, p := range parents {
		if p == nil {
			panic(fmt.Errorf("%w: parent %d of %q is nil", ErrInvalidKind, i, name))
		}
	}
	if len(parents) == 0 {
		parents = []*Kind{Any}
	}

	ps := make([]*Kind, len(parents))
	copy(ps, parents)
	return &Kind{name: name, parents: ps}
}

// Name returns the kind name.
func (k *Kind) Name() string {
	if k == nil {
		return ""
	}
	return k.name
}

func (k *Kind) String() string {
	if k == nil {
		return "<nil>"
	}
	return k.name
}

// Parents returns the direct parents of k.
func (k *Kind) Parents() []*Kind {
	if k == nil {
		return nil
	}
	ps := make([]*Kind, len(k.parents))
	copy(ps, k.parents)
	return ps
}

// Is reports whether k is target or descends from it.
func (k *Kind) Is(target *Kind) bool {
	if k == nil || target == nil {
		return false
	}
	if k == target {
		return true
	}
	for _, p := range k.parents {
		if p.Is(target) {
			return true
		}
	}
	return false
}

// Kinded is implemented by errors that carry their own kind.
type Kinded interface {
	Kind() *Kind
}

// Of returns the kind of err. Errors that are not Kinded, or report a nil
// kind, are of kind Any. Of returns nil for a nil error.
func Of(err error) *Kind {
	if err == nil {
		return nil
	}
	if k, ok := err.(Kinded); ok {
		if kk := k.Kind(); kk != nil {
			return kk
		}
	}
	return Any
}
