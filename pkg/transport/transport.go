// Package transport defines the submission interface for built
// invalidation requests and the sentinel errors implementations map their
// service failures onto.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/3leaps/gopurge/pkg/invalidation"
)

// Submitter sends a built invalidation request to the remote API.
type Submitter interface {
	// Submit sends the request and returns the remote invalidation ID.
	Submit(ctx context.Context, req *invalidation.Request) (string, error)
}

// Sentinel errors for transport operations.
var (
	// ErrDistributionNotFound indicates the distribution does not exist.
	ErrDistributionNotFound = errors.New("distribution not found")

	// ErrAccessDenied indicates insufficient permissions.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTooManyInvalidations indicates the account has too many
	// invalidations in progress. The caller owns any retry decision;
	// nothing in this core retries.
	ErrTooManyInvalidations = errors.New("too many invalidations in progress")

	// ErrServiceUnavailable indicates the remote service is unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Error wraps transport failures with request context.
type Error struct {
	// Op is the operation that failed (e.g., "Submit").
	Op string

	// DistributionID is the target distribution.
	DistributionID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.DistributionID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.DistributionID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsDistributionNotFound returns true if the error indicates a missing distribution.
func IsDistributionNotFound(err error) bool {
	return errors.Is(err, ErrDistributionNotFound)
}

// IsAccessDenied returns true if the error indicates insufficient permissions.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidCredentials returns true if the error indicates authentication failed.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsTooManyInvalidations returns true if the error indicates the in-progress limit was hit.
func IsTooManyInvalidations(err error) bool {
	return errors.Is(err, ErrTooManyInvalidations)
}

// IsServiceUnavailable returns true if the error indicates the service is unavailable.
func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}
