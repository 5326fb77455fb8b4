package retry

import (
	"fmt"
	"time"

	"github.com/jonwraymond/retrier/tracer"
)

// Option configures a Retrier.
type Option func(*settings)

// limitField marks a limit given explicitly through an option.
type limitField uint8

const (
	fieldMaxAttempts limitField = 1 << iota
	fieldTimeout
	fieldBackoff
	fieldMaxBackoff
)

// settings is the configuration being built by options. Unlike a zero
// Config field, an explicitly set limit must be positive.
type settings struct {
	cfg Config
	set limitField
}

func (s *settings) limit(f limitField) { s.set |= f }

func (s *settings) validate() error {
	switch {
	case s.set&fieldMaxAttempts != 0 && s.cfg.MaxAttempts <= 0:
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidConfig, s.cfg.MaxAttempts)
	case s.set&fieldTimeout != 0 && s.cfg.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, s.cfg.Timeout)
	case s.set&fieldBackoff != 0 && s.cfg.Backoff <= 0:
		return fmt.Errorf("%w: backoff must be positive, got %s", ErrInvalidConfig, s.cfg.Backoff)
	case s.set&fieldMaxBackoff != 0 && s.cfg.MaxBackoff <= 0:
		return fmt.Errorf("%w: max backoff must be positive, got %s", ErrInvalidConfig, s.cfg.MaxBackoff)
	}
	return s.cfg.Validate()
}

// Options combines opts into one Option applied in order.
func Options(opts ...Option) Option {
	return func(s *settings) {
		for _, opt := range opts {
			if opt != nil {
				opt(s)
			}
		}
	}
}

// WithConfig replaces the whole configuration. Zero fields of cfg leave
// their limit unconfigured.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		s.cfg = cfg
		s.set = 0
	}
}

// WithMaxAttempts limits the number of attempts, including the first.
// n must be positive.
func WithMaxAttempts(n int) Option {
	return func(s *settings) {
		s.cfg.MaxAttempts = n
		s.limit(fieldMaxAttempts)
	}
}

// WithTimeout limits the time from the first attempt. d must be positive.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.cfg.Timeout = d
		s.limit(fieldTimeout)
	}
}

// WithBackoff sleeps d, 2d, 4d, ... after successive failures.
func WithBackoff(d time.Duration) Option {
	return func(s *settings) {
		s.cfg.Backoff = d
		s.cfg.MaxBackoff = 0
		s.limit(fieldBackoff)
		s.set &^= fieldMaxBackoff
	}
}

// WithBackoffMax is WithBackoff with sleeps capped at maxDelay.
func WithBackoffMax(d, maxDelay time.Duration) Option {
	return func(s *settings) {
		s.cfg.Backoff = d
		s.cfg.MaxBackoff = maxDelay
		s.limit(fieldBackoff | fieldMaxBackoff)
	}
}

// WithTracer sends diagnostics of every invocation to t.
func WithTracer(t tracer.Tracer) Option {
	return func(s *settings) {
		s.cfg.Tracer = t
	}
}
