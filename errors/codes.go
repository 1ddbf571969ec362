package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Stage execution errors
const (
	// ErrCodeStageFailed indicates a single stage's processing failed.
	ErrCodeStageFailed ErrorCode = "STAGE_FAILED"
	// ErrCodeStageNotRegistered indicates a stage name has no registered function.
	ErrCodeStageNotRegistered ErrorCode = "STAGE_NOT_REGISTERED"
	// ErrCodeParallelBatchFailed indicates one or more parallel stages failed.
	ErrCodeParallelBatchFailed ErrorCode = "PARALLEL_BATCH_FAILED"
)

// Contract violations
const (
	// ErrCodeIncompleteResult indicates the pipeline reached its success path
	// with a missing timestamp or payload key. This is a programming error,
	// never a runtime condition, and is treated as fatal.
	ErrCodeIncompleteResult ErrorCode = "INCOMPLETE_RESULT"
	// ErrCodeMergeConflict indicates two result fragments claimed the same
	// payload key.
	ErrCodeMergeConflict ErrorCode = "MERGE_CONFLICT"
	// ErrCodeDuplicateTimestamp indicates a stage tried to write a timestamp
	// key that already exists within the run.
	ErrCodeDuplicateTimestamp ErrorCode = "DUPLICATE_TIMESTAMP"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the caller-supplied input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

var fatalCodes = map[ErrorCode]bool{
	ErrCodeIncompleteResult:   true,
	ErrCodeMergeConflict:      true,
	ErrCodeDuplicateTimestamp: true,
}

// IsFatalCode returns true for codes that signal a broken contract rather
// than a failure of stage work.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
