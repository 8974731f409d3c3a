package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-gradebook/internal/domain"
)

// RosterLoader builds a classroom from an external roster source.
// Implementations could read YAML files, spreadsheets or any tabular export.
type RosterLoader interface {
	// Load reads the roster and returns a fully populated classroom.
	// Invalid rows are reported as errors rather than silently skipped.
	//
	// Parameters:
	//   - ctx: Context for cancellation of long imports
	//   - path: Location of the roster
	Load(ctx context.Context, path string) (*domain.Classroom, error)
}

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus,
// OpenTelemetry, or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like report runs, failures, etc.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking values like classroom size or averages.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	// This is useful for tracking distributions like report sizes,
	// scores, etc.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
