// Package errors provides the standardized error envelope shared by the intake service.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes. The string value is
// what callers see in the "error" field of a failed response.
type ErrorCode string

// Caller errors
const (
	ErrCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrCodeValidationError  ErrorCode = "VALIDATION_ERROR"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
)

// Operator and backend errors
const (
	ErrCodeMissingStorage     ErrorCode = "MISSING_STORAGE"
	ErrCodeStorageError       ErrorCode = "STORAGE_ERROR"
	ErrCodeNotificationFailed ErrorCode = "NOTIFICATION_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Missing   []string               `json:"missing,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is keeps working on sentinels.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// HTTPStatus returns the response status for this error.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidJSONError creates a non-retryable malformed-body error.
func NewInvalidJSONError(err error) *StandardError {
	stdErr := &StandardError{
		Code:      ErrCodeInvalidJSON,
		Message:   "Request body must be valid JSON.",
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		stdErr.Details = err.Error()
	}
	return stdErr
}

// NewValidationError creates a non-retryable error listing the missing fields
// in the order they were checked.
func NewValidationError(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationError,
		Message:   "Required fields are missing.",
		Missing:   missing,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingStorageError reports absent storage configuration. The setting name
// is surfaced to the caller verbatim since the operator has to fix it.
func NewMissingStorageError(setting string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingStorage,
		Message:   fmt.Sprintf("%s not set.", setting),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewStorageError creates a storage write failure. It is retryable for the
// caller, but never retried inside the request.
func NewStorageError(err error) *StandardError {
	stdErr := &StandardError{
		Code:      ErrCodeStorageError,
		Message:   "Request could not be stored.",
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		stdErr.Details = err.Error()
	}
	return stdErr
}

// NewNotificationFailedError describes a failed delivery to one notifier.
func NewNotificationFailedError(notifier string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("notifier: %s, error: %v", notifier, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewMethodNotAllowedError(method string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMethodNotAllowed,
		Message:   fmt.Sprintf("Method %s is not allowed.", method),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	stdErr := &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
	if err != nil {
		stdErr.Details = err.Error()
	}
	return stdErr
}

// ==========================
// 3. Status Mapping
// ==========================

var statusMapping = map[ErrorCode]int{
	ErrCodeInvalidJSON:        http.StatusBadRequest,
	ErrCodeValidationError:    http.StatusBadRequest,
	ErrCodeMethodNotAllowed:   http.StatusMethodNotAllowed,
	ErrCodeMissingStorage:     http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeNotificationFailed: http.StatusBadGateway,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// HTTPStatus maps an error code to its HTTP status. Unknown codes are 500.
func HTTPStatus(code ErrorCode) int {
	if status, ok := statusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsRetryableErrorCode checks if an error code is retryable by the caller.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeStorageError, ErrCodeNotificationFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory groups codes for logging.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeInvalidJSON, ErrCodeValidationError, ErrCodeMethodNotAllowed:
		return "CLIENT"
	case ErrCodeMissingStorage:
		return "CONFIGURATION"
	case ErrCodeStorageError:
		return "STORAGE"
	case ErrCodeNotificationFailed:
		return "NOTIFICATION"
	default:
		return "INTERNAL"
	}
}
