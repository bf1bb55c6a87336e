package server

import (
	"net/http"

	"github.com/teranos/protolua/errors"
)

// Sentinel errors for common cases.
// Use these with errors.Is() for type-safe error checking.
var (
	// ErrNotFound indicates the requested artifact does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrServiceUnavailable indicates no artifacts have been generated yet
	ErrServiceUnavailable = errors.New("service unavailable")
)

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidRequest)
}

// statusFor maps an error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.IsLinkResolutionError(err):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
