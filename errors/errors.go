// Package errors provides error handling for protolua.
//
// This package re-exports github.com/cockroachdb/errors so callers get stack
// traces, wrapping and user-facing hints from one import, and defines the
// sentinel errors that classify generation failures.
//
// Usage:
//
//	if err := idx.Validate(); err != nil {
//	    return errors.Wrap(err, "failed to index document")
//	}
//
//	// Classify a failure
//	if errors.Is(err, errors.ErrTypeResolution) {
//	    // translator rejected an expression
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Generation failure classes. Every error returned from loading, translating,
// link resolution and rendering is marked with exactly one of these, so
// callers can classify with errors.Is while keeping the descriptive message.
var (
	// ErrDocumentIdentity marks an unsupported application, api_version or stage
	ErrDocumentIdentity = New("unsupported document")

	// ErrTypeResolution marks a type expression the translator cannot express
	ErrTypeResolution = New("type resolution failed")

	// ErrLinkResolution marks a documentation link to an unknown member
	ErrLinkResolution = New("invalid link")

	// ErrRenderConflict marks a declaration that cannot be rendered in the requested form
	ErrRenderConflict = New("render conflict")

	// ErrEmptyDefinition marks a struct concept with neither properties nor another type form
	ErrEmptyDefinition = New("definition has no information content")
)

// NewDocumentIdentityError creates an error marked as ErrDocumentIdentity
func NewDocumentIdentityError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrDocumentIdentity)
}

// NewTypeResolutionError creates an error marked as ErrTypeResolution
func NewTypeResolutionError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrTypeResolution)
}

// NewLinkResolutionError creates an error marked as ErrLinkResolution
func NewLinkResolutionError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrLinkResolution)
}

// NewRenderConflictError creates an error marked as ErrRenderConflict
func NewRenderConflictError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrRenderConflict)
}

// NewEmptyDefinitionError creates an error marked as ErrEmptyDefinition
func NewEmptyDefinitionError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrEmptyDefinition)
}

// IsDocumentIdentityError checks if an error is or wraps ErrDocumentIdentity
func IsDocumentIdentityError(err error) bool {
	return err != nil && Is(err, ErrDocumentIdentity)
}

// IsTypeResolutionError checks if an error is or wraps ErrTypeResolution
func IsTypeResolutionError(err error) bool {
	return err != nil && Is(err, ErrTypeResolution)
}

// IsLinkResolutionError checks if an error is or wraps ErrLinkResolution
func IsLinkResolutionError(err error) bool {
	return err != nil && Is(err, ErrLinkResolution)
}

// IsRenderConflictError checks if an error is or wraps ErrRenderConflict
func IsRenderConflictError(err error) bool {
	return err != nil && Is(err, ErrRenderConflict)
}
