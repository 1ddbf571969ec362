// Package errors provides structured error types for pipeline execution.
// Errors carry a machine-readable code, the stage they originated in, and
// the underlying cause, so a failed run can name exactly what went wrong.
package errors
