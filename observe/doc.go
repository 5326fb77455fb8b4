// Package observe provides observability for retried operations.
//
// It wraps retry invocations in OpenTelemetry spans, records invocation and
// attempt metrics, and turns retry diagnostics into span events and debug
// log entries. Exporter setup lives in the exporters subpackage.
package observe
