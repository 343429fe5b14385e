// Package datastore error handling helpers for database operations
package datastore

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wgamage/snakeid-go/internal/errors"
)

// dbError creates a properly categorized database error with context pairs.
func dbError(err error, operation string, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}

	return builder.Build()
}

// conflictError wraps a duplicate-style sentinel so callers can errors.Is it.
func conflictError(sentinel error, operation, format string, args ...any) error {
	return errors.New(fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))).
		Component("datastore").
		Category(errors.CategoryConflict).
		Context("operation", operation).
		Build()
}

// notFoundError wraps a not-found sentinel with the offending identifier.
func notFoundError(sentinel error, operation string, id any) error {
	return errors.New(fmt.Errorf("%w: %v", sentinel, id)).
		Component("datastore").
		Category(errors.CategoryNotFound).
		Context("operation", operation).
		Context("identifier", fmt.Sprintf("%v", id)).
		Build()
}

// validationError wraps a validation sentinel (self relations, bad input).
func validationError(sentinel error, operation, format string, args ...any) error {
	return errors.New(fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))).
		Component("datastore").
		Category(errors.CategoryValidation).
		Context("operation", operation).
		Build()
}

// isRecordNotFound reports whether err is GORM's empty-result error.
func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
