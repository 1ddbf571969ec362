// Package observability provides OpenTelemetry tracing for pipeline runs.
// Stage invocations are wrapped in spans so the per-stage timing the
// pipeline records can be correlated with an external trace backend.
package observability
