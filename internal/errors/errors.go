package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/pillars/internal/logger"
)

var (
	// ErrValidation marks input rejected before anything is persisted
	ErrValidation = stderrors.New("validation failed")
	// ErrNotFound marks a row that does not exist or is not owned by the requesting user
	ErrNotFound = stderrors.New("not found")
	// ErrOutOfOrder marks an attempt to move a streak backwards in time
	ErrOutOfOrder = stderrors.New("date precedes last active date")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid returns a ValidationError for field.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFound wraps ErrNotFound with the kind and id of the missing row.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// CategoryError is a failure isolated to one category of a multi-part operation.
type CategoryError struct {
	Category string
	Err      error
}

func (e CategoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e CategoryError) Unwrap() error {
	return e.Err
}

// Collected is a list of isolated failures reported alongside a partial result.
type Collected []CategoryError

func (c Collected) Error() string {
	parts := make([]string, 0, len(c))
	for _, e := range c {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Categories returns the names of the failed categories in order.
func (c Collected) Categories() []string {
	names := make([]string, 0, len(c))
	for _, e := range c {
		names = append(names, e.Category)
	}
	return names
}

// Is and As forward to the standard library so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
