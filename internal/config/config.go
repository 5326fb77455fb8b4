// Package config loads the retry command configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jonwraymond/retrier/observe"
	"github.com/jonwraymond/retrier/retry"
)

// DefaultServiceName names the command in telemetry when the file does not.
const DefaultServiceName = "retry"

// ErrInvalid indicates a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid configuration")

// File is the on-disk configuration of the retry command.
type File struct {
	Retry retry.Config `yaml:"retry"`

	// ExitCodes lists the exit codes worth retrying. Empty means every
	// non-zero code.
	ExitCodes []int `yaml:"exit_codes"`

	// Nested also matches failures wrapped by other failures.
	Nested bool `yaml:"nested"`

	Logging Logging        `yaml:"logging"`
	Observe observe.Config `yaml:"observe"`
}

// Logging configures the command's console log.
type Logging struct {
	Level string `yaml:"level"` // debug|info|warn|error
}

// Default returns the configuration used when no file is given.
func Default() *File {
	f := &File{}
	f.applyDefaults()
	return f
}

func (f *File) applyDefaults() {
	if f.Retry == (retry.Config{}) {
		f.Retry = retry.Default.Config()
	}
	if f.Logging.Level == "" {
		f.Logging.Level = "info"
	}
	if f.Observe.ServiceName == "" {
		f.Observe.ServiceName = DefaultServiceName
	}
}

// Validate checks every section of the file.
func (f *File) Validate() error {
	if err := f.Retry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for _, code := range f.ExitCodes {
		if code < 1 || code > 255 {
			return fmt.Errorf("%w: exit code %d out of range 1-255", ErrInvalid, code)
		}
	}
	if !slices.Contains(observe.ValidLogLevels, f.Logging.Level) {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, f.Logging.Level)
	}
	if err := f.Observe.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
