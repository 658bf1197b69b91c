// Package validation provides path sanitization and the shared field
// validation error type used across the settings and invalidation layers.
package validation

import "fmt"

// Code identifies a validation failure class.
type Code string

// Validation failure codes.
const (
	// CodeInvalidPaths indicates the candidate list itself was unusable
	// (nil or empty).
	CodeInvalidPaths Code = "InvalidPaths"

	// CodeNoValidPaths indicates no candidate survived normalization.
	CodeNoValidPaths Code = "NoValidPaths"

	// CodeTooManyPaths indicates the normalized list exceeds the
	// per-request ceiling imposed by the invalidation API.
	CodeTooManyPaths Code = "TooManyPaths"

	// CodeMissingDistribution indicates no distribution ID was supplied.
	CodeMissingDistribution Code = "MissingDistribution"

	// CodeHTTPSRequired indicates credentials were submitted over an
	// insecure channel.
	CodeHTTPSRequired Code = "HttpsRequired"

	// CodeInvalidRegion indicates a malformed region string.
	CodeInvalidRegion Code = "InvalidRegion"

	// CodeInvalidDistributionID indicates a malformed distribution ID.
	CodeInvalidDistributionID Code = "InvalidDistributionId"

	// CodeEmptyPaths indicates a submitted path list with no usable lines.
	CodeEmptyPaths Code = "EmptyPaths"

	// CodeInvalidPath indicates a submitted path line that does not start
	// with a slash.
	CodeInvalidPath Code = "InvalidPath"
)

// Error is the uniform failure representation for path and settings
// validation. Field is empty for failures not tied to a named field.
type Error struct {
	Code    Code
	Message string
	Field   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf builds a validation error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// FieldErrorf builds a validation error bound to a named field.
func FieldErrorf(code Code, field, format string, args ...any) *Error {
	return &Error{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}
