package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by Student and Classroom operations.
var (
	// ErrMissingArgument indicates that a required argument was absent,
	// such as a nil student or an empty course name.
	ErrMissingArgument = errors.New("missing argument")

	// ErrInvalidValue indicates that an argument was present but outside
	// its accepted range, such as a score above MaxScore or a non-positive limit.
	ErrInvalidValue = errors.New("invalid value")

	// ErrDuplicateStudent indicates that a classroom already contains a
	// student with the same registration number.
	ErrDuplicateStudent = errors.New("duplicate student")

	// ErrNoScores indicates that an aggregation had no scores to work on.
	ErrNoScores = errors.New("no scores recorded")
)

// ArgumentError represents a rejected argument of a domain operation.
// It records which operation and argument were involved.
type ArgumentError struct {
	// Operation is the name of the operation that rejected the argument.
	Operation string

	// Argument names the offending parameter.
	Argument string

	// Err is ErrMissingArgument or ErrInvalidValue, optionally wrapped with detail.
	Err error
}

// Error implements the error interface for ArgumentError.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument error: operation=%s, argument=%s, err=%v", e.Operation, e.Argument, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is and errors.As.
func (e *ArgumentError) Unwrap() error { return e.Err }

// NewArgumentError creates a new ArgumentError with the given details.
func NewArgumentError(operation, argument string, err error) *ArgumentError {
	return &ArgumentError{
		Operation: operation,
		Argument:  argument,
		Err:       err,
	}
}

// DuplicateStudentError is returned when a student is added to a classroom
// that already holds a student with the same registration number.
type DuplicateStudentError struct {
	// RegistrationNumber identifies the conflicting student.
	RegistrationNumber string
}

// Error implements the error interface for DuplicateStudentError.
func (e *DuplicateStudentError) Error() string {
	return fmt.Sprintf("duplicate student: registration_number=%s", e.RegistrationNumber)
}

// Unwrap returns ErrDuplicateStudent so callers can match with errors.Is.
func (e *DuplicateStudentError) Unwrap() error { return ErrDuplicateStudent }

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
