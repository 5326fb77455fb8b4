// Package cli implements the retry command.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonwraymond/retrier/classify"
	"github.com/jonwraymond/retrier/handler"
	"github.com/jonwraymond/retrier/internal/config"
	"github.com/jonwraymond/retrier/kind"
	"github.com/jonwraymond/retrier/observe"
	"github.com/jonwraymond/retrier/retry"
	"github.com/jonwraymond/retrier/tracer"
)

type options struct {
	configPath string
	attempts   int
	timeout    time.Duration
	backoff    time.Duration
	maxBackoff time.Duration
	onExit     []int
	nested     bool
	debug      bool

	code int
}

func newRootCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry [flags] -- command [args...]",
		Short: "Run a command until it succeeds",
		Long: `retry runs a command and runs it again while it exits with a retryable
status, until it succeeds, the attempts run out or the timeout passes.
retry exits with the status of the last run.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	cmd.Flags().SetInterspersed(false)

	fs := cmd.Flags()
	fs.StringVar(&o.configPath, "config", "", "config file")
	fs.IntVar(&o.attempts, "attempts", 0, "maximum number of runs, 0 for no limit")
	fs.DurationVar(&o.timeout, "timeout", 0, "stop retrying after this long, 0 for no limit")
	fs.DurationVar(&o.backoff, "backoff", 0, "delay before the first retry, doubled on every retry")
	fs.DurationVar(&o.maxBackoff, "max-backoff", 0, "upper bound of the retry delay")
	fs.IntSliceVar(&o.onExit, "on-exit", nil, "exit codes to retry on (default every non-zero code)")
	fs.BoolVar(&o.nested, "nested", false, "also match failures wrapped by other failures")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")
	return cmd
}

// Run executes the retry command with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o := &options{}
	cmd := newRootCommand(o)
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		newLogger(stderr, slog.LevelInfo).Error("retry failed", "error", err)
		return ExitUsage
	}
	return o.code
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.override(cmd.Flags(), f)
	if err := f.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(f.Logging.Level)); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	if o.debug {
		level = slog.LevelDebug
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	f.Observe.Output = cmd.ErrOrStderr()
	obs, err := observe.NewObserver(ctx, f.Observe)
	if err != nil {
		return err
	}
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}

	r, err := retry.New(
		retry.WithConfig(f.Retry),
		retry.WithTracer(tracer.Func(func(msg string) { logger.Debug(msg) })),
	)
	if err != nil {
		return err
	}

	runner := &Runner{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
	op := observe.Operation{Namespace: "cli", Name: filepath.Base(args[0])}

	logger.Debug("running command", "command", args, "config", r.Config().String())
	err = mw.Run(ctx, op, r, func(ctx context.Context) error {
		return runner.Run(ctx, args[0], args[1:]...)
	}, retryOn(f))

	o.code = ExitCode(err)
	if err != nil {
		logger.Error("command failed", "error", err, "exit_code", o.code)
	}
	return nil
}

// override applies the flags set on the command line on top of f.
func (o *options) override(fs *pflag.FlagSet, f *config.File) {
	if fs.Changed("attempts") {
		f.Retry.MaxAttempts = o.attempts
	}
	if fs.Changed("timeout") {
		f.Retry.Timeout = o.timeout
	}
	if fs.Changed("backoff") {
		f.Retry.Backoff = o.backoff
		if !fs.Changed("max-backoff") {
			f.Retry.MaxBackoff = 0
		}
	}
	if fs.Changed("max-backoff") {
		f.Retry.MaxBackoff = o.maxBackoff
	}
	if fs.Changed("on-exit") {
		f.ExitCodes = o.onExit
	}
	if fs.Changed("nested") {
		f.Nested = o.nested
	}
}

// retryOn builds the classifier for the configured exit codes.
func retryOn(f *config.File) handler.Handler {
	kinds := []*kind.Kind{KindExit}
	if len(f.ExitCodes) > 0 {
		kinds = kinds[:0]
		for _, code := range f.ExitCodes {
			kinds = append(kinds, ExitKind(code))
		}
	}
	if f.Nested {
		return classify.OnNested(kinds...)
	}
	return classify.On(kinds...)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
