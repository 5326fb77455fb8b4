package retry

import (
	"fmt"
	"time"

	"github.com/jonwraymond/retrier/tracer"
)

// Config holds the limit values of a Retrier. Zero values leave a limit
// unconfigured.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int `yaml:"max_attempts"`

	// Timeout bounds the time from the first attempt to a failure that may
	// still be retried.
	Timeout time.Duration `yaml:"timeout"`

	// Backoff is the sleep after the first failed attempt. It doubles after
	// every further failure.
	Backoff time.Duration `yaml:"backoff"`

	// MaxBackoff caps the backoff sleep. Requires Backoff.
	MaxBackoff time.Duration `yaml:"max_backoff"`

	// Tracer receives diagnostics from every invocation. It must be safe
	// for concurrent use.
	Tracer tracer.Tracer `yaml:"-"`
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.MaxAttempts < 0 {
		return fmt.Errorf("%w: max attempts must not be negative, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative, got %s", ErrInvalidConfig, c.Timeout)
	}
	if c.Backoff != 0 && c.Backoff < time.Millisecond {
		return fmt.Errorf("%w: backoff must be at least 1ms, got %s", ErrInvalidConfig, c.Backoff)
	}
	if c.MaxBackoff != 0 {
		if c.Backoff == 0 {
			return fmt.Errorf("%w: max backoff requires backoff", ErrInvalidConfig)
		}
		if c.MaxBackoff < time.Millisecond {
			return fmt.Errorf("%w: max backoff must be at least 1ms, got %s", ErrInvalidConfig, c.MaxBackoff)
		}
	}
	return nil
}

// Bounded reports whether the configuration limits the retry loop.
func (c Config) Bounded() bool {
	return c.MaxAttempts > 0 || c.Timeout > 0
}

func (c Config) String() string {
	return fmt.Sprintf("Config{MaxAttempts: %d, Timeout: %s, Backoff: %s, MaxBackoff: %s, Tracer: %v}",
		c.MaxAttempts, c.Timeout, c.Backoff, c.MaxBackoff, c.Tracer != nil)
}
