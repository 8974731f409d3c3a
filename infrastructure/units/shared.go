// Package units provides report units that implement the ports.Unit
// interface over a domain.Classroom.
package units

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-gradebook/internal/domain"
)

// Unit type names as used in report configuration files.
const (
	TypeTopScorers         = "top_scorers"
	TypeSuccessfulStudents = "successful_students"
	TypeClassAverage       = "class_average"
	TypeCourseStats        = "course_stats"
	TypeAtRisk             = "at_risk"
)

// Common errors returned by report units.
var (
	// ErrEmptyUnitName is returned when attempting to create a unit with an empty name.
	ErrEmptyUnitName = errors.New("unit name cannot be empty")

	// ErrNilClassroom is returned when a unit is executed without a classroom.
	ErrNilClassroom = errors.New("classroom cannot be nil")

	// ErrUnknownStatistic is returned for a statistic name no aggregator implements.
	ErrUnknownStatistic = errors.New("unknown statistic")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// tracer is shared by every unit in the package.
var tracer = otel.Tracer("gradebook/units")

// startSpan opens a span for a unit execution with the standard unit attributes.
func startSpan(
	ctx context.Context,
	unitType, unitID string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	base := []attribute.KeyValue{
		attribute.String("unit.type", unitType),
		attribute.String("unit.id", unitID),
	}
	return tracer.Start(ctx, unitType+".Execute", trace.WithAttributes(append(base, attrs...)...))
}

// failSpan records err on span and returns it unchanged.
func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// checkInput rejects a cancelled context or a missing classroom.
func checkInput(ctx context.Context, classroom *domain.Classroom) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if classroom == nil {
		return ErrNilClassroom
	}
	return nil
}

// newReport returns a passing report with a fresh ID and timestamp.
func newReport(unit string, kind domain.ReportKind) *domain.Report {
	return &domain.Report{
		ID:        uuid.NewString(),
		Unit:      unit,
		Kind:      kind,
		Passed:    true,
		Timestamp: time.Now().UTC(),
	}
}

// finishSpan attaches the report's headline numbers to span.
func finishSpan(span trace.Span, report *domain.Report) {
	span.SetAttributes(
		attribute.Float64("report.value", report.Value),
		attribute.Int("report.entries", len(report.Entries)),
		attribute.Bool("report.passed", report.Passed),
	)
}

// decodeConfig overlays a generic parameter map onto dst, which should
// already hold defaults. Unknown keys are rejected to catch typos, and the
// result is validated against dst's struct tags.
func decodeConfig(config map[string]any, dst any) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// An empty map marshals to "{}", which decodes as a no-op.
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode parameters (check for typos): %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
