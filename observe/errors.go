package observe

import "errors"

// Errors returned by Config.Validate and NewObserver. Each is wrapped with
// the offending value.
var (
	// ErrMissingServiceName is returned when telemetry has no service to
	// report retry invocations under.
	ErrMissingServiceName = errors.New("observe: service name is required")

	// ErrInvalidSamplePct is returned when the share of sampled invocation
	// spans lies outside [MinSamplePct, MaxSamplePct].
	ErrInvalidSamplePct = errors.New("observe: sample percentage must be between 0.0 and 1.0")

	// ErrInvalidTracingExporter is returned when tracing is enabled with an
	// exporter missing from ValidTracingExporters.
	ErrInvalidTracingExporter = errors.New("observe: unknown tracing exporter")

	// ErrInvalidMetricsExporter is returned when metrics are enabled with an
	// exporter missing from ValidMetricsExporters.
	ErrInvalidMetricsExporter = errors.New("observe: unknown metrics exporter")

	// ErrInvalidLogLevel is returned when logging is enabled with a level
	// missing from ValidLogLevels.
	ErrInvalidLogLevel = errors.New("observe: unknown log level")
)

// Errors returned by Middleware before a retry invocation starts.
var (
	ErrNilObserver          = errors.New("observe: observer is nil")
	ErrNilRetrier           = errors.New("observe: retrier is nil")
	ErrMissingOperationName = errors.New("observe: operation name is required")
)

// Bounds of TracingConfig.SamplePct. At MaxSamplePct every invocation span
// is kept, at MinSamplePct none.
const (
	MinSamplePct = 0.0
	MaxSamplePct = 1.0
)

// Accepted exporter and level names. The empty name is accepted and
// behaves like "none" for exporters and "info" for levels.
var (
	ValidTracingExporters = []string{"otlp", "jaeger", "stdout", "none", ""}
	ValidMetricsExporters = []string{"otlp", "prometheus", "stdout", "none", ""}
	ValidLogLevels        = []string{"debug", "info", "warn", "error", ""}
)

// RedactedFields are log field keys whose values never reach the output.
// Remedies refreshing credentials tend to log them under these keys.
var RedactedFields = []string{
	"authorization",
	"token",
	"access_token",
	"refresh_token",
	"password",
	"secret",
	"api_key",
	"credential",
}
