// Package errors provides custom error types for the modhub system.
// These errors enable programmatic error checking and consistent handling
// of store, refresh, and permission failures throughout the engine.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
var As = errors.As

// Join wraps the given errors into a single error.
var Join = errors.Join

// Common sentinel errors for the modhub system
var (
	// ErrNotFound indicates that a requested entry was not found
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable indicates that the catalog store is temporarily unavailable
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrPermissionDenied indicates a destructive operation was refused
	ErrPermissionDenied = errors.New("permission denied")

	// ErrClosed indicates use of an already-closed hub
	ErrClosed = errors.New("hub closed")
)

// NotFoundError represents an error when an entry is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// StoreError represents a failure of a store read operation
type StoreError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

// RefreshError represents a failure while refreshing the remote index
type RefreshError struct {
	Forced     bool
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *RefreshError) Error() string {
	mode := "incremental"
	if e.Forced {
		mode = "forced"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s index refresh failed (status %d): %v", mode, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s index refresh failed: %v", mode, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RefreshError) Unwrap() error {
	return e.Err
}

// WrapStore wraps a store read failure with its operation name.
// Returns nil if err is nil.
func WrapStore(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Operation: operation, Err: err}
}

// WrapRefresh wraps an index refresh failure.
// Returns nil if err is nil.
func WrapRefresh(forced bool, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &RefreshError{Forced: forced, StatusCode: statusCode, Err: err}
}

// WrapIO wraps a filesystem failure with operation and path context.
// Returns nil if err is nil.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w", operation, path, err)
}
