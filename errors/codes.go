package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Precondition errors, raised synchronously before any state change.
const (
	// ErrCodeInvalidState indicates the operation is not allowed in the current lifecycle state.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	// ErrCodeMissingField indicates a required configuration field is unset.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeUnsupportedBody indicates a request body that is not plain text.
	ErrCodeUnsupportedBody ErrorCode = "UNSUPPORTED_BODY"
	// ErrCodeInvalidInput indicates malformed input, typically configuration.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Unsupported surface.
const (
	// ErrCodeNotImplemented indicates a member of the request API that is
	// deliberately not implemented.
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
)

// Transport errors (retryable by the caller, never by xhrkit itself)
const (
	// ErrCodeTransportUnavailable indicates no transport handle could be obtained.
	ErrCodeTransportUnavailable ErrorCode = "TRANSPORT_UNAVAILABLE"
	// ErrCodeConnectionFailed indicates a network-level failure.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the transport gave up waiting.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeDecodeFailed indicates a response body that could not be decoded as text.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
)

// ErrCodeInternal indicates an unexpected failure.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTransportUnavailable: true,
	ErrCodeConnectionFailed:     true,
	ErrCodeTimeout:              true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsPreconditionCode reports whether code belongs to the synchronous
// precondition family.
func IsPreconditionCode(code ErrorCode) bool {
	switch code {
	case ErrCodeInvalidState, ErrCodeMissingField, ErrCodeUnsupportedBody:
		return true
	default:
		return false
	}
}
