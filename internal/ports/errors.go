package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors that can occur while loading rosters,
// configuration and reports.
var (
	// ErrUnsupportedFormat indicates that a roster or config file has an
	// extension no loader understands.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEmptyRoster indicates that a roster source contained no students.
	ErrEmptyRoster = errors.New("empty roster")

	// ErrMalformedRow indicates that a roster row could not be parsed.
	ErrMalformedRow = errors.New("malformed row")

	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")
)

// RosterError represents an error from roster import.
// It includes the source and row that failed.
type RosterError struct {
	// Source is the roster file or sheet that was being read.
	Source string

	// Row is the 1-based row number, or 0 when the error is not row-specific.
	Row int

	// Err is the underlying error that caused the import to fail.
	Err error
}

// Error implements the error interface for RosterError.
func (e *RosterError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("roster error: source=%s, row=%d, err=%v", e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("roster error: source=%s, err=%v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *RosterError) Unwrap() error { return e.Err }

// NewRosterError creates a new RosterError with the given details.
func NewRosterError(source string, row int, err error) *RosterError {
	return &RosterError{
		Source: source,
		Row:    row,
		Err:    err,
	}
}

// MetricsError represents an error from metrics collection operations.
type MetricsError struct {
	// Metric is the name of the metric that was being collected when the
	// error occurred.
	Metric string

	// Operation is the name of the metrics operation that failed.
	Operation string

	// Err is the underlying error that caused the metrics operation to fail.
	Err error
}

// Error implements the error interface for MetricsError.
func (e *MetricsError) Error() string {
	return fmt.Sprintf("metrics error: operation=%s, metric=%s, err=%v", e.Operation, e.Metric, e.Err)
}

// Unwrap returns the underlying error.
func (e *MetricsError) Unwrap() error { return e.Err }

// NewMetricsError creates a new MetricsError with the given details.
func NewMetricsError(metric, operation string, err error) *MetricsError {
	return &MetricsError{
		Metric:    metric,
		Operation: operation,
		Err:       err,
	}
}
