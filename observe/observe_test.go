package observe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// TestConfigValidate verifies configuration validation errors.
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid",
			cfg: Config{
				ServiceName: "retrier",
				Version:     "1.0.0",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "stdout"},
				Logging:     LoggingConfig{Enabled: true, Level: "info"},
			},
		},
		{
			name:    "missing service name",
			cfg:     Config{Version: "1.0.0"},
			wantErr: ErrMissingServiceName,
		},
		{
			name: "unknown tracing exporter",
			cfg: Config{
				ServiceName: "retrier",
				Tracing:     TracingConfig{Enabled: true, Exporter: "unknown"},
			},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name: "unknown tracing exporter ignored when disabled",
			cfg: Config{
				ServiceName: "retrier",
				Tracing:     TracingConfig{Exporter: "unknown"},
			},
		},
		{
			name: "unknown metrics exporter",
			cfg: Config{
				ServiceName: "retrier",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "badvalue"},
			},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name: "sample percentage above range",
			cfg: Config{
				ServiceName: "retrier",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.5},
			},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name: "sample percentage negative",
			cfg: Config{
				ServiceName: "retrier",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: -0.1},
			},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name: "unknown log level",
			cfg: Config{
				ServiceName: "retrier",
				Logging:     LoggingConfig{Enabled: true, Level: "badlevel"},
			},
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got: %v", tc.wantErr, err)
			}
		})
	}
}

// TestNewObserver_DisabledNoop verifies that all-disabled config returns no-op observer.
func TestNewObserver_DisabledNoop(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "retrier"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if obs.Tracer() == nil {
		t.Error("expected non-nil tracer (noop)")
	}
	if obs.Meter() == nil {
		t.Error("expected non-nil meter (noop)")
	}
	if _, ok := obs.Logger().(*noopLogger); !ok {
		t.Errorf("expected noop logger, got %T", obs.Logger())
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no shutdown error, got: %v", err)
	}
}

// TestNewObserver_InvalidConfigReturnsError verifies that invalid config returns error.
func TestNewObserver_InvalidConfigReturnsError(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Fatalf("expected ErrMissingServiceName, got: %v", err)
	}
}

// TestNewObserver_StdoutExportsToOutput verifies spans and logs reach Config.Output.
func TestNewObserver_StdoutExportsToOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		ServiceName: "retrier",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
		Output:      &buf,
	}

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	_, span := obs.Tracer().Start(context.Background(), "retry.observer.test")
	span.End()
	obs.Logger().Info(context.Background(), "hello")

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected no shutdown error, got: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "retry.observer.test") {
		t.Errorf("expected span in output, got: %s", out)
	}
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("expected log entry in output, got: %s", out)
	}
}

// TestNewObserver_OtlpWithoutEndpoint verifies exporter setup errors surface.
func TestNewObserver_OtlpWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	cfg := Config{
		ServiceName: "retrier",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "otlp"},
		Output:      io.Discard,
	}

	_, err := NewObserver(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for unconfigured OTLP endpoint")
	}
	if !strings.Contains(err.Error(), "failed to setup metrics") {
		t.Errorf("expected metrics setup error, got: %v", err)
	}
}
