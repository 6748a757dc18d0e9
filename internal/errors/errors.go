// Package errors provides centralized error definitions for the relnotes
// codebase. It defines the two fatal error conditions of an aggregation
// run — an unknown note source and a failed remote fetch — and re-exports
// the standard library helpers so callers can import only this package
// for all error handling.
//
// Everything else that goes wrong during aggregation (an unmatched
// milestone name, a missing release for a computed tag) is a recoverable
// condition reported through the diagnostics logger, not an error value.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// UnknownSourceError indicates an unrecognized note source strategy.
type UnknownSourceError struct {
	Source string
}

// Error implements the error interface.
func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown release notes source: %q", e.Source)
}

// FetchError indicates a remote fetch that returned a non-success
// status. Status is the HTTP status code when one was observed, zero
// otherwise.
type FetchError struct {
	Resource string
	Status   int
	Err      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to fetch %s: status %d", e.Resource, e.Status)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.Resource, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a FetchError for the named resource.
func NewFetchError(resource string, status int, err error) *FetchError {
	return &FetchError{Resource: resource, Status: status, Err: err}
}

// IsFatal reports whether err is one of the conditions that must abort
// the whole run rather than be warned and skipped.
func IsFatal(err error) bool {
	var unknownSource *UnknownSourceError
	var fetch *FetchError
	return errors.As(err, &unknownSource) || errors.As(err, &fetch)
}
