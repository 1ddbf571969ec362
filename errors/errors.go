package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// AppError is the unified pipeline error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Stage names the pipeline stage the error originated in, if any.
	Stage string `json:"stage,omitempty"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Stage != "" {
		fmt.Fprintf(&b, " [stage %s]", e.Stage)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// StageFailed creates an AppError for a stage whose processing failed.
// It is fatal to the sequential run it occurred in.
func StageFailed(stage string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStageFailed, Message: fmt.Sprintf("stage %s failed", stage),
		Stage: stage, Cause: cause,
	}
}

// StageNotRegistered creates an AppError for an unknown stage name.
func StageNotRegistered(stage string) *AppError {
	return &AppError{
		Code: ErrCodeStageNotRegistered, Message: fmt.Sprintf("no function registered for stage %s", stage),
		Stage: stage,
	}
}

// IncompleteResult creates an AppError for a run that reached its success
// path with a missing timestamp or payload key.
func IncompleteResult(missing []string) *AppError {
	sorted := append([]string(nil), missing...)
	sort.Strings(sorted)
	return &AppError{
		Code:    ErrCodeIncompleteResult,
		Message: fmt.Sprintf("pipeline completed without: %s", strings.Join(sorted, ", ")),
		Details: map[string]any{"missing": sorted},
	}
}

// MergeConflict creates an AppError for two fragments claiming one payload key.
func MergeConflict(key string) *AppError {
	return &AppError{
		Code: ErrCodeMergeConflict, Message: fmt.Sprintf("payload key %q populated by more than one fragment", key),
		Details: map[string]any{"key": key},
	}
}

// DuplicateTimestamp creates an AppError for a stage writing its timestamp
// key twice within one run.
func DuplicateTimestamp(stage string) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateTimestamp, Message: fmt.Sprintf("stage %s already has a timestamp record in this run", stage),
		Stage: stage,
	}
}

// InvalidInput creates an AppError for invalid caller input.
func InvalidInput(reason string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: reason}
}

// --- Inspection helpers ---

// CodeOf extracts the ErrorCode from err, or "" if err carries none.
// A BatchError reports the aggregate code, not its first member's.
func CodeOf(err error) ErrorCode {
	var batch *BatchError
	if errors.As(err, &batch) {
		return ErrCodeParallelBatchFailed
	}
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return ""
}

// StageOf extracts the originating stage name from err, or "" if unknown.
func StageOf(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Stage
	}
	return ""
}
