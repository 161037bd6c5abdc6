// Package errors provides standardized error handling patterns for FetchLab components.
//
// # Overview
//
// The errors package implements a three-class error classification system for
// the data-access core and its transport adapters: Invalid (bad input, the
// caller's mistake), NotFound (the lookup target does not exist), and Internal
// (unexpected failures in core logic).
//
// The classification enables transport adapters to map core failures to the
// right response without hardcoded error string matching: Invalid becomes a
// bad-request response, NotFound a not-found response, Internal a generic
// server-error response.
//
// Note that the core signals ordinary absence through (value, ok) return
// pairs, never through errors. NotFound errors exist only for the transport
// boundary, where absence must travel through an error-shaped channel (for
// example a GraphQL error list).
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if input.Title == "" {
//	    return errors.ErrMissingField
//	}
//
// Wrap errors with context for debugging:
//
//	if err := store.CreateBook(input); err != nil {
//	    return errors.Wrap(err, "Gateway", "handleCreateBook", "book creation")
//	}
//
// Check classification when mapping to a response:
//
//	switch {
//	case errors.IsNotFound(err):
//	    w.WriteHeader(http.StatusNotFound)
//	case errors.IsInvalid(err):
//	    w.WriteHeader(http.StatusBadRequest)
//	default:
//	    w.WriteHeader(http.StatusInternalServerError)
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// This format enables consistent log parsing and debugging across the
// platform. The Wrap family of functions applies the pattern while preserving
// classification through the chain; errors.Is and errors.As work across all
// wrapping layers.
package errors
