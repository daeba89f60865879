// Package errors provides centralized error handling with categories used
// to map failures onto HTTP status codes at the API boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryNotFound      ErrorCategory = "not-found"
	CategoryConflict      ErrorCategory = "conflict"
	CategoryDatabase      ErrorCategory = "database"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryGeneric       ErrorCategory = "generic"
)

// ComponentUnknown is used when the component cannot be determined.
const ComponentUnknown = "unknown"

// EnhancedError wraps an error with additional context and metadata
type EnhancedError struct {
	Err       error          // Original error
	component string         // Component where error occurred
	Category  ErrorCategory  // Error category for better grouping
	Context   map[string]any // Additional context data
	Timestamp time.Time      // When the error occurred
}

// Error implements the error interface
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is implements error type checking. Two enhanced errors match when their
// categories match, so handlers can branch on category with errors.Is.
func (ee *EnhancedError) Is(target error) bool {
	if ee2, ok := target.(*EnhancedError); ok {
		return ee.Category == ee2.Category
	}
	return Is(ee.Err, target)
}

// GetComponent returns the component name recorded on the error.
func (ee *EnhancedError) GetComponent() string {
	if ee.component != "" {
		return ee.component
	}
	return ComponentUnknown
}

// GetContext returns a context value by key
func (ee *EnhancedError) GetContext(key string) (any, bool) {
	v, ok := ee.Context[key]
	return v, ok
}

// ErrorBuilder provides a fluent interface for creating enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error with enhanced context
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{
		err: err,
		// context is lazily initialized when needed
	}
}

// Newf creates a new formatted error with enhanced context
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name (auto-detected from the call site if not set)
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category for better grouping
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds context data to the error
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// Build creates the EnhancedError
func (eb *ErrorBuilder) Build() *EnhancedError {
	category := eb.category
	if category == "" {
		category = CategoryGeneric
	}

	component := eb.component
	if component == "" {
		component = detectComponent()
	}

	return &EnhancedError{
		Err:       eb.err,
		component: component,
		Category:  category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
}

// detectComponent walks the call stack to find the first caller outside
// this package and derives a component name from its package path.
func detectComponent() string {
	pcs := make([]uintptr, 8)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function == "" {
			break
		}
		if !strings.Contains(frame.Function, "/internal/errors.") {
			if name := componentFromFunction(frame.Function); name != "" {
				return name
			}
		}
		if !more {
			break
		}
	}
	return ComponentUnknown
}

// componentFromFunction extracts the package name from a fully qualified
// function name such as "github.com/x/y/internal/datastore.(*DataStore).Open".
func componentFromFunction(fn string) string {
	slash := strings.LastIndex(fn, "/")
	rest := fn[slash+1:]
	if dot := strings.Index(rest, "."); dot > 0 {
		return rest[:dot]
	}
	return ""
}

// GetCategory extracts the category from an error chain, or CategoryGeneric
// when the chain carries no enhanced error.
func GetCategory(err error) ErrorCategory {
	var ee *EnhancedError
	if As(err, &ee) {
		return ee.Category
	}
	return CategoryGeneric
}

// HasCategory reports whether any error in the chain carries the given category.
func HasCategory(err error, category ErrorCategory) bool {
	var ee *EnhancedError
	if As(err, &ee) {
		return ee.Category == category
	}
	return false
}

// Standard library compatibility functions

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// NewStd creates a standard error without enhancement, for sentinel errors
func NewStd(text string) error {
	return stderrors.New(text)
}
