package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Iteration errors
const (
	// ErrCodeInvalidArgument indicates a call was rejected before any store access.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeProcessingFailure indicates the caller's batch handler failed.
	ErrCodeProcessingFailure ErrorCode = "PROCESSING_FAILURE"
	// ErrCodeStoreFailure indicates a range or cardinality query failed.
	ErrCodeStoreFailure ErrorCode = "STORE_FAILURE"
)

// Connection/Availability errors (retryable)
const (
	// ErrCodeConnectionFailed indicates a failed connection to a backing store.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeStoreFailure:     true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Iterations never retry on their own; connection setup does, through
// the resilience package.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
