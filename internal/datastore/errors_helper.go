// Package datastore error handling helpers for database operations
package datastore

import (
	"strings"

	"gorm.io/gorm"

	"github.com/tphakala/habitwheel/internal/errors"
)

var errNotOpen = errors.NewStd("database connection is not initialized")

// dbError creates a properly categorized database error with context
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

// notFoundError creates a not-found error for a missing row
func notFoundError(resource string, id any) error {
	return errors.Newf("%s not found", resource).
		Component("datastore").
		Category(errors.CategoryNotFound).
		Context("resource", resource).
		Context("id", id).
		Build()
}

// conflictError creates a conflict error for uniqueness violations
func conflictError(message string, context ...any) error {
	builder := errors.Newf("%s", message).
		Component("datastore").
		Category(errors.CategoryConflict)

	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}

	return builder.Build()
}

// translateGormError maps a raw GORM error onto the error taxonomy. The
// resource name and id feed the not-found message.
func translateGormError(err error, operation, resource string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFoundError(resource, id)
	case isUniqueViolation(err):
		return conflictError(resource+" already exists", "id", id)
	default:
		return dbError(err, operation, "resource", resource)
	}
}

// isUniqueViolation detects unique-constraint failures across SQLite and
// MySQL without importing driver error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "constraint failed: unique")
}

// isRecordNotFound reports whether err is GORM's missing-row sentinel.
func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsNotFound reports whether err represents a missing row.
func IsNotFound(err error) bool {
	return errors.HasCategory(err, errors.CategoryNotFound)
}

// IsConflict reports whether err represents a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.HasCategory(err, errors.CategoryConflict)
}
