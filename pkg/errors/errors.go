package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrBotDetected indicates the submission tripped the honeypot
	ErrBotDetected = errors.New("bot detected")

	// ErrRateLimited indicates the caller exceeded a rate limit
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrPersistFailed indicates a storage write failed
	ErrPersistFailed = errors.New("persist failed")

	// ErrNotifyFailed indicates email dispatch failed after persistence
	ErrNotifyFailed = errors.New("notify failed")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// PersistError wraps a storage-layer failure. The wrapped cause is for
// server-side logs only and must never reach a public caller.
func PersistError(cause error) error {
	return fmt.Errorf("%w: %v", ErrPersistFailed, cause)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
