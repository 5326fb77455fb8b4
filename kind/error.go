package kind

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Error is a failure of a given kind with an optional cause.
// It records the stack at the point it was created.
type Error struct {
	kind  *Kind
	msg   string
	cause error
	stack errors.StackTrace
}

// Errorf returns an error of kind k with the formatted message.
func Errorf(k *Kind, format string, args ...any) error {
	return newError(k, fmt.Sprintf(format, args...), nil)
}

// Wrap returns an error of kind k caused by cause.
// If cause is nil, Wrap returns nil.
func Wrap(k *Kind, cause error, msg string) error {
	if cause == nil {
		return nil
	}
	return newError(k, msg, cause)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(k *Kind, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return newError(k, fmt.Sprintf(format, args...), cause)
}

func newError(k *Kind, msg string, cause error) *Error {
	if k == nil {
		k = Any
	}
	e := &Error{kind: k, msg: msg, cause: cause}
	// drop newError and the exported constructor
	if st, ok := errors.New(msg).(interface{ StackTrace() errors.StackTrace }); ok {
		if frames := st.StackTrace(); len(frames) > 2 {
			e.stack = frames[2:]
		}
	}
	return e
}

// Kind returns the failure kind.
func (e *Error) Kind() *Kind { return e.kind }

func (e *Error) Error() string {
	switch {
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

// Unwrap provides compatibility for Go 1.13 error chains.
func (e *Error) Unwrap() error { return e.cause }

// Cause provides compatibility for github.com/pkg/errors.
func (e *Error) Cause() error { return e.cause }

// StackTrace returns the stack recorded at construction.
func (e *Error) StackTrace() errors.StackTrace { return e.stack }

func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "[%s] %s", e.kind, e.msg)
			e.stack.Format(s, verb)
			if e.cause != nil {
				fmt.Fprintf(s, "\ncaused by: %+v", e.cause)
			}
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}
