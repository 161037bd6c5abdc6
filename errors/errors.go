// Package errors provides standardized error handling patterns for FetchLab
// components. It includes error classification, standard error variables, and
// helper functions for consistent error wrapping across the system.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorInvalid represents errors due to invalid input or configuration
	ErrorInvalid ErrorClass = iota
	// ErrorNotFound represents lookups whose target does not exist
	ErrorNotFound
	// ErrorInternal represents unexpected failures in core logic
	ErrorInternal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorInvalid:
		return "invalid"
	case ErrorNotFound:
		return "not_found"
	case ErrorInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Lookup errors
	ErrNotFound = errors.New("not found")

	// Validation errors
	ErrMissingField      = errors.New("missing required field")
	ErrUnknownForeignKey = errors.New("referenced entity does not exist")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownField      = errors.New("unknown field requested")
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrInvalidFieldValue = errors.New("invalid field value")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsInvalid checks if an error is due to invalid input
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrUnknownForeignKey) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrUnknownOperation) ||
		errors.Is(err, ErrInvalidFieldValue) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingConfig)
}

// IsNotFound checks if an error represents an absent entity
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorNotFound
	}

	return errors.Is(err, ErrNotFound)
}

// IsInternal checks if an error is an unexpected internal failure
func IsInternal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInternal
	}

	return false
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if IsNotFound(err) {
		return ErrorNotFound
	}
	if IsInvalid(err) {
		return ErrorInvalid
	}
	// Unknown errors surface as server failures rather than client mistakes.
	return ErrorInternal
}

// newClassified creates a new classified error
// This is an internal helper - use WrapInvalid(), WrapNotFound(), or WrapInternal() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapInvalid wraps an error as invalid input with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}

// WrapNotFound wraps an error as a missing-entity failure with context
func WrapNotFound(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorNotFound, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInternal wraps an error as an internal failure with context
func WrapInternal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInternal, wrappedErr, component, method, wrappedErr.Error())
}

// Invalidf creates a new invalid-input error from a format string.
// Used for validation failures that carry a human-readable reason.
func Invalidf(format string, args ...any) error {
	return &ClassifiedError{
		Class: ErrorInvalid,
		Err:   fmt.Errorf(format, args...),
	}
}
