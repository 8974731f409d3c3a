package units

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

var _ ports.Unit = (*CourseStatsUnit)(nil)

// CourseStatsUnit summarizes one course with a configurable statistic
// (mean, max, min or median) over the students scored in it.
// Entries list every scored student by decreasing score, ties by
// registration number.
type CourseStatsUnit struct {
	name       string
	config     CourseStatsConfig
	aggregator domain.Aggregator
}

// CourseStatsConfig defines the configuration parameters for the CourseStatsUnit.
type CourseStatsConfig struct {
	// Course is the course to summarize.
	Course string `yaml:"course" json:"course" validate:"required,max=100"`

	// Statistic selects the aggregation: "mean", "max", "min" or "median".
	Statistic Statistic `yaml:"statistic" json:"statistic" validate:"required,oneof=mean max min median"`

	// MinValue is the statistic value (0-20) required for the report to pass.
	MinValue float64 `yaml:"min_value" json:"min_value" validate:"min=0,max=20"`
}

// NewCourseStatsUnit creates a new CourseStatsUnit with the specified configuration.
func NewCourseStatsUnit(name string, config CourseStatsConfig) (*CourseStatsUnit, error) {
	if name == "" {
		return nil, ErrEmptyUnitName
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	aggregator, err := NewAggregator(config.Statistic)
	if err != nil {
		return nil, err
	}

	return &CourseStatsUnit{name: name, config: config, aggregator: aggregator}, nil
}

// Name returns the unique identifier for this unit instance.
func (u *CourseStatsUnit) Name() string { return u.name }

// Execute aggregates the configured course's scores.
// Returns an error wrapping domain.ErrNoScores when nobody was scored in the course.
func (u *CourseStatsUnit) Execute(ctx context.Context, classroom *domain.Classroom) (*domain.Report, error) {
	ctx, span := startSpan(ctx, TypeCourseStats, u.name,
		attribute.String("config.course", u.config.Course),
		attribute.String("config.statistic", string(u.config.Statistic)),
	)
	defer span.End()

	if err := checkInput(ctx, classroom); err != nil {
		return nil, failSpan(span, err)
	}

	byStudent := classroom.CourseScores(u.config.Course)
	scores := make([]int, 0, len(byStudent))
	for _, score := range byStudent {
		scores = append(scores, score)
	}

	value, err := u.aggregator.Aggregate(scores)
	if err != nil {
		return nil, failSpan(span, fmt.Errorf("%s of course %q: %w", u.config.Statistic, u.config.Course, err))
	}

	ranked := make([]*domain.Student, 0, len(byStudent))
	for regNo := range byStudent {
		if s, ok := classroom.Student(regNo); ok {
			ranked = append(ranked, s)
		}
	}
	slices.SortFunc(ranked, func(a, b *domain.Student) int {
		if diff := byStudent[b.RegistrationNumber()] - byStudent[a.RegistrationNumber()]; diff != 0 {
			return diff
		}
		return strings.Compare(a.RegistrationNumber(), b.RegistrationNumber())
	})

	report := newReport(u.name, domain.ReportCourseStats)
	report.Course = u.config.Course
	report.Value = value
	report.Passed = value >= u.config.MinValue
	report.Entries = domain.EntriesFromStudents(ranked, func(s *domain.Student) float64 {
		return float64(byStudent[s.RegistrationNumber()])
	})

	finishSpan(span, report)
	return report, nil
}

// Validate checks if the unit is properly configured and ready for execution.
func (u *CourseStatsUnit) Validate() error {
	if err := validate.Struct(u.config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// DefaultCourseStatsConfig returns a CourseStatsConfig computing the mean
// without a pass gate. Course must still be provided.
func DefaultCourseStatsConfig() CourseStatsConfig {
	return CourseStatsConfig{
		Statistic: StatisticMean,
		MinValue:  0,
	}
}

// CreateCourseStatsUnit creates a CourseStatsUnit from a configuration map.
func CreateCourseStatsUnit(id string, config map[string]any) (*CourseStatsUnit, error) {
	cfg := DefaultCourseStatsConfig()
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	return NewCourseStatsUnit(id, cfg)
}
