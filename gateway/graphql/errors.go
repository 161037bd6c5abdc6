package graphql

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/c360/fetchlab/errors"
)

// mapError converts a strategy or store error to a GraphQL error with an
// extension code. Internal failures are sanitized.
func mapError(err error, operation string, path ast.Path) *gqlerror.Error {
	if err == nil {
		return nil
	}

	if gqlErr, ok := err.(*gqlerror.Error); ok {
		return gqlErr
	}

	switch {
	case errors.IsNotFound(err):
		return &gqlerror.Error{
			Message: "Resource not found",
			Path:    path,
			Extensions: map[string]interface{}{
				"code":      "NOT_FOUND",
				"operation": operation,
			},
		}

	case errors.IsInvalid(err):
		return &gqlerror.Error{
			Message: fmt.Sprintf("Invalid input: %s", err.Error()),
			Path:    path,
			Extensions: map[string]interface{}{
				"code":      "INVALID_INPUT",
				"operation": operation,
			},
		}

	default:
		return &gqlerror.Error{
			Message: "Internal server error",
			Path:    path,
			Extensions: map[string]interface{}{
				"code":      "INTERNAL_ERROR",
				"operation": operation,
			},
		}
	}
}

// requestError builds a document-level error that has no field path.
func requestError(code, format string, args ...any) *gqlerror.Error {
	return &gqlerror.Error{
		Message: fmt.Sprintf(format, args...),
		Extensions: map[string]interface{}{
			"code": code,
		},
	}
}
