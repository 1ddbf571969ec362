package errors

import (
	"fmt"
	"sort"
	"strings"
)

// BatchError aggregates failures from a parallel batch. Only failed members
// are listed; stages that succeeded do not appear.
type BatchError struct {
	Failures []*AppError
}

// NewBatchError builds a BatchError from per-stage failures, ordered by
// stage name so the aggregate message is deterministic.
func NewBatchError(failures []*AppError) *BatchError {
	sorted := append([]*AppError(nil), failures...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Stage < sorted[j].Stage })
	return &BatchError{Failures: sorted}
}

// Error returns the aggregate message enumerating every failed stage.
func (e *BatchError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Stage
	}
	return fmt.Sprintf("%s: %d stage(s) failed: %s",
		ErrCodeParallelBatchFailed, len(e.Failures), strings.Join(names, ", "))
}

// Unwrap exposes the member failures to errors.Is / errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// FailedStages returns the names of all failed members, sorted.
func (e *BatchError) FailedStages() []string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Stage
	}
	return names
}
