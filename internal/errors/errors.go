package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InvalidPort indicates a port value that is not an unsigned 16-bit integer
	InvalidPort ErrorCode = "INVALID_PORT"
	// MissingPortValue indicates -p was the last token
	MissingPortValue ErrorCode = "MISSING_PORT_VALUE"
	// MissingConfigPath indicates -c was the last token
	MissingConfigPath ErrorCode = "MISSING_CONFIG_PATH"
	// NoContentProvided indicates no positional content and no config document
	NoContentProvided ErrorCode = "NO_CONTENT_PROVIDED"
	// ConfigFileNotFound indicates the config document could not be read
	ConfigFileNotFound ErrorCode = "CONFIG_FILE_NOT_FOUND"
	// ConfigParseError indicates the config document is malformed or invalid
	ConfigParseError ErrorCode = "CONFIG_PARSE_ERROR"
	// InvalidSettings indicates a runtime setting from the environment is unusable
	InvalidSettings ErrorCode = "INVALID_SETTINGS"
	// BindFailure indicates the listening socket could not be opened
	BindFailure ErrorCode = "BIND_FAILURE"
	// FileReadFailure indicates a routed file could not be read (recovered as 404)
	FileReadFailure ErrorCode = "FILE_READ_FAILURE"
	// RespondFailure indicates the response could not be written to the client
	RespondFailure ErrorCode = "RESPOND_FAILURE"
	// Unauthorized indicates missing or wrong Basic credentials
	Unauthorized ErrorCode = "UNAUTHORIZED"
	// RateLimited indicates a client locked out after repeated auth failures
	RateLimited ErrorCode = "RATE_LIMITED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// UsageLine is the one-line CLI synopsis.
const UsageLine = "Usage: tiny-serve [-p <port>] [-f] [-c <config-path>] <content|filename>..."

// ServeError represents a tiny-serve error with a stable code and message
type ServeError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// NewServeError creates a new ServeError
func NewServeError(code ErrorCode, message string, cause error) *ServeError {
	return &ServeError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *ServeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ServeError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ServeError) WithDetails(details interface{}) *ServeError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first ServeError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var se *ServeError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsConfigError reports whether the code belongs to startup configuration.
// These are detected before any socket is bound.
func IsConfigError(code ErrorCode) bool {
	switch code {
	case InvalidPort, MissingPortValue, MissingConfigPath, NoContentProvided,
		ConfigFileNotFound, ConfigParseError, InvalidSettings:
		return true
	default:
		return false
	}
}
