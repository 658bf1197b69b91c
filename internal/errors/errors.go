// Package errors provides the application error type and the JSON error
// envelope shared by server handlers and middleware.
package errors

import (
	"context"
	"fmt"
)

// Error codes used in HTTP responses and CLI diagnostics.
const (
	CodeInternal           = "INTERNAL_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeExternalService    = "EXTERNAL_SERVICE_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeBadRequest         = "BAD_REQUEST"
)

// AppError carries a stable code alongside the message and cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewExternalServiceError creates an error for a failed remote dependency.
func NewExternalServiceError(message string) *AppError {
	return &AppError{Code: CodeExternalService, Message: message}
}

// WrapInternal wraps an unexpected failure. The context parameter is
// accepted for call-site symmetry with request-scoped wrappers; it is not
// currently consulted.
func WrapInternal(_ context.Context, err error, message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Err: err}
}

// HTTPErrorResponse is the JSON envelope for all error responses.
type HTTPErrorResponse struct {
	Error HTTPErrorBody `json:"error"`
}

// HTTPErrorBody is the error payload inside the envelope.
type HTTPErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPError builds an error envelope.
func NewHTTPError(code, message string, details map[string]any) *HTTPErrorResponse {
	return &HTTPErrorResponse{Error: HTTPErrorBody{Code: code, Message: message, Details: details}}
}
