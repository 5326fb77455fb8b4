package cli

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"sync"

	"github.com/jonwraymond/retrier/kind"
)

// Exit codes reported for failures that are not a command's own status.
const (
	ExitUsage       = 2
	ExitNotFound    = 127
	ExitInterrupted = 130
)

var (
	// KindExit is the parent of every command exit failure.
	KindExit = kind.New("exit")

	// KindSignaled marks a command terminated by a signal.
	KindSignaled = kind.New("exit.signal", KindExit)

	exitKindsMu sync.Mutex
	exitKinds   = map[int]*kind.Kind{}
)

// ExitKind returns the kind for exit status code, a child of KindExit.
// Repeated calls with the same code return the same kind.
func ExitKind(code int) *kind.Kind {
	exitKindsMu.Lock()
	defer exitKindsMu.Unlock()

	k, ok := exitKinds[code]
	if !ok {
		k = kind.New("exit."+strconv.Itoa(code), KindExit)
		exitKinds[code] = k
	}
	return k
}

// ExitCode maps the final error of a retried command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() > 0 {
		return ee.ExitCode()
	}
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	}
	return 1
}
