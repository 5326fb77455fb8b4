package cli

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/jonwraymond/retrier/kind"
)

// Runner starts external commands with shared standard streams.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run runs name with args and waits for it to exit.
//
// A non-zero exit status is reported as an error of ExitKind(status), a
// signal as KindSignaled. Errors starting the command are returned as is.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return err
	}
	if code := ee.ExitCode(); code > 0 {
		return kind.Wrapf(ExitKind(code), err, "%s exited with status %d", name, code)
	}
	return kind.Wrapf(KindSignaled, err, "%s terminated", name)
}
