package kind_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/retrier/kind"
)

var (
	transient = kind.New("transient")
	timeout   = kind.New("timeout", transient)
	dial      = kind.New("dial", timeout)
	fatal     = kind.New("fatal")
)

func TestKind_Is(t *testing.T) {
	tests := []struct {
		name   string
		k      *kind.Kind
		target *kind.Kind
		want   bool
	}{
		{"self", timeout, timeout, true},
		{"parent", timeout, transient, true},
		{"grandparent", dial, transient, true},
		{"root", dial, kind.Any, true},
		{"root is itself", kind.Any, kind.Any, true},
		{"child is not parent", transient, timeout, false},
		{"unrelated", fatal, transient, false},
		{"root is not child", kind.Any, fatal, false},
		{"nil receiver", nil, kind.Any, false},
		{"nil target", fatal, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.k.Is(tc.target))
		})
	}
}

func TestKind_MultipleParents(t *testing.T) {
	io := kind.New("io")
	netTimeout := kind.New("net.timeout", timeout, io)

	assert.True(t, netTimeout.Is(io))
	assert.True(t, netTimeout.Is(transient))
	assert.False(t, io.Is(timeout))
	assert.Len(t, netTimeout.Parents(), 2)
}

func TestNew_Panics(t *testing.T) {
	assert.PanicsWithError(t, "kind: invalid kind: name is empty", func() {
		kind.New("")
	})
	assert.PanicsWithError(t, `kind: invalid kind: parent 1 of "x" is nil`, func() {
		kind.New("x", transient, nil)
	})
}

func TestOf(t *testing.T) {
	assert.Nil(t, kind.Of(nil))
	assert.Same(t, kind.Any, kind.Of(errors.New("plain")))
	assert.Same(t, timeout, kind.Of(kind.Errorf(timeout, "slow")))

	// Kind is not inherited through plain wrappers.
	wrapped := fmt.Errorf("call: %w", kind.Errorf(timeout, "slow"))
	assert.Same(t, kind.Any, kind.Of(wrapped))
}

func TestChain(t *testing.T) {
	c := kind.Errorf(dial, "refused")
	b := kind.Wrap(timeout, c, "connect")
	a := kind.Wrap(fatal, b, "request")

	assert.Equal(t, []*kind.Kind{fatal, timeout, dial}, kind.Chain(a))
	assert.Nil(t, kind.Chain(nil))
}

func TestChain_MixedWrappers(t *testing.T) {
	inner := kind.Errorf(dial, "refused")
	err := pkgerrors.WithMessage(fmt.Errorf("outer: %w", inner), "ctx")

	// pkg/errors message wrapper, fmt wrapper, kinded error.
	assert.Equal(t, []*kind.Kind{kind.Any, kind.Any, dial}, kind.Chain(err))
}

func TestChain_CauseOnly(t *testing.T) {
	err := causeOnly{cause: kind.Errorf(timeout, "slow")}
	assert.Equal(t, []*kind.Kind{kind.Any, timeout}, kind.Chain(err))
}

func TestChain_Join(t *testing.T) {
	err := errors.Join(
		kind.Wrap(timeout, kind.Errorf(dial, "refused"), "first"),
		kind.Errorf(fatal, "second"),
	)

	assert.Equal(t, []*kind.Kind{kind.Any, timeout, dial, fatal}, kind.Chain(err))
	assert.Len(t, kind.Causes(err), 4)
}

func TestError_Message(t *testing.T) {
	cause := errors.New("connection reset")

	assert.Equal(t, "read: connection reset", kind.Wrap(transient, cause, "read").Error())
	assert.Equal(t, "connection reset", kind.Wrap(transient, cause, "").Error())
	assert.Equal(t, "no cause", kind.Errorf(transient, "no %s", "cause").Error())
	assert.Nil(t, kind.Wrap(transient, nil, "read"))
	assert.Nil(t, kind.Wrapf(transient, nil, "read %d", 1))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := kind.Wrapf(transient, cause, "read %s", "body")

	require.ErrorIs(t, err, cause)
	assert.Same(t, cause, pkgerrors.Cause(err))

	var ke *kind.Error
	require.ErrorAs(t, err, &ke)
	assert.Same(t, transient, ke.Kind())
}

func TestError_NilKindIsAny(t *testing.T) {
	assert.Same(t, kind.Any, kind.Of(kind.Errorf(nil, "x")))
}

func TestError_FormatStack(t *testing.T) {
	err := kind.Errorf(timeout, "slow")

	assert.Equal(t, "slow", fmt.Sprintf("%v", err))
	assert.Equal(t, `"slow"`, fmt.Sprintf("%q", err))

	verbose := fmt.Sprintf("%+v", err)
	assert.True(t, strings.HasPrefix(verbose, "[timeout] slow"), verbose)
	assert.Contains(t, verbose, "kind_test.TestError_FormatStack")
	assert.NotContains(t, verbose, "kind.newError")
}

type causeOnly struct{ cause error }

func (c causeOnly) Error() string { return "cause only: " + c.cause.Error() }
func (c causeOnly) Cause() error  { return c.cause }
