// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
)

// ErrorResponse is the JSON envelope written for failed requests.
type ErrorResponse struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// ErrorHandler turns errors into logged, standardized HTTP responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// WriteError logs err and writes its envelope to w.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, err error, fields map[string]interface{}) {
	stdErr := Normalize(err)
	h.logError(stdErr, fields)

	status := stdErr.HTTPStatus()
	WriteJSON(w, status, ToResponse(stdErr))
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// ToResponse builds the caller-facing body. Validation failures carry only the
// missing list, everything else carries the message.
func ToResponse(stdErr *StandardError) ErrorResponse {
	resp := ErrorResponse{
		OK:    false,
		Error: string(stdErr.Code),
	}
	if stdErr.Code == ErrCodeValidationError {
		resp.Missing = stdErr.Missing
		if resp.Missing == nil {
			resp.Missing = []string{}
		}
		return resp
	}
	resp.Message = stdErr.Message
	return resp
}

// WriteJSON writes v as an application/json body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *ErrorHandler) logError(stdErr *StandardError, extra map[string]interface{}) {
	if h.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     IsRetryableErrorCode(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if len(stdErr.Missing) > 0 {
		fields["missing"] = stdErr.Missing
	}
	for k, v := range extra {
		fields[k] = v
	}

	if stdErr.HTTPStatus() < http.StatusInternalServerError {
		h.logger.Warn("Request rejected", fields)
		return
	}
	h.logger.Error("Request failed", fields)
}
