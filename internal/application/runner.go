package application

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

// Metric names recorded by the Runner.
const (
	MetricUnitLatency       = "unit_execute"
	MetricRunsTotal         = "report_runs_total"
	MetricUnitFailuresTotal = "unit_failures_total"
	MetricClassroomStudents = "classroom_students"
	MetricClassroomAverage  = "classroom_average"
	MetricReportEntries     = "report_entries"
)

// ErrEmptyPlan is returned when a plan without units is run.
var ErrEmptyPlan = errors.New("report plan has no units")

// Runner executes report plans against a classroom.
// Units run concurrently up to a limit. The classroom is shared read-only
// between them, so it must not be mutated while a run is in progress.
type Runner struct {
	logger  *zap.Logger
	metrics ports.MetricsCollector
	// concurrency is the default unit parallelism when a plan sets none.
	concurrency int
}

// NewRunner creates a runner. A nil logger discards logs and a nil
// metrics collector disables metrics.
func NewRunner(logger *zap.Logger, metrics ports.MetricsCollector) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		logger:      logger,
		metrics:     metrics,
		concurrency: runtime.NumCPU() * 2,
	}
}

// SetConcurrencyLimit sets the default number of units executed at once.
// Values below 1 restore the default of twice the CPU count.
func (r *Runner) SetConcurrencyLimit(limit int) {
	if limit < 1 {
		limit = runtime.NumCPU() * 2
	}
	r.concurrency = limit
}

// Run validates every unit of plan, executes them over classroom and
// returns their reports in plan order.
//
// A failing unit does not stop the others. When units fail, Run returns the
// partial result (failed units have no report) together with the joined
// unit errors. Validation failures abort before anything executes.
func (r *Runner) Run(ctx context.Context, plan *ReportPlan, classroom *domain.Classroom) (*domain.RunResult, error) {
	if plan == nil || len(plan.Units) == 0 {
		return nil, ErrEmptyPlan
	}
	if classroom == nil {
		return nil, fmt.Errorf("classroom cannot be nil")
	}

	var invalid []error
	for _, pu := range plan.Units {
		if err := pu.Unit.Validate(); err != nil {
			invalid = append(invalid, fmt.Errorf("unit %s: %w", pu.ID, err))
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("plan %s failed validation: %w", plan.Name, errors.Join(invalid...))
	}

	result := &domain.RunResult{
		ID:        uuid.NewString(),
		Plan:      plan.Name,
		Students:  classroom.CountStudents(),
		StartedAt: time.Now().UTC(),
	}
	logger := r.logger.With(zap.String("run_id", result.ID), zap.String("plan", plan.Name))
	logger.Info("report run started",
		zap.Int("units", len(plan.Units)),
		zap.Int("students", result.Students))

	limit := plan.Concurrency
	if limit <= 0 {
		limit = r.concurrency
	}

	reports := make([]*domain.Report, len(plan.Units))
	errs := make([]error, len(plan.Units))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, pu := range plan.Units {
		g.Go(func() error {
			reports[i], errs[i] = r.execute(ctx, logger, pu, classroom)
			return nil
		})
	}
	_ = g.Wait()

	result.Reports = make([]*domain.Report, 0, len(reports))
	for _, report := range reports {
		if report != nil {
			result.Reports = append(result.Reports, report)
		}
	}
	result.Duration = time.Since(result.StartedAt)

	r.recordRun(plan, classroom, result)

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		logger.Warn("report run finished with failures",
			zap.Int("failed_units", len(failed)),
			zap.Duration("duration", result.Duration))
		r.recordCounter(MetricRunsTotal, map[string]string{"plan": plan.Name, "status": "failed"})
		return result, fmt.Errorf("plan %s: %d of %d units failed: %w",
			plan.Name, len(failed), len(plan.Units), errors.Join(failed...))
	}

	logger.Info("report run finished",
		zap.Int("reports", len(result.Reports)),
		zap.Duration("duration", result.Duration))
	r.recordCounter(MetricRunsTotal, map[string]string{"plan": plan.Name, "status": "success"})
	return result, nil
}

// execute runs one unit and records its latency and outcome.
func (r *Runner) execute(
	ctx context.Context,
	logger *zap.Logger,
	pu PlannedUnit,
	classroom *domain.Classroom,
) (*domain.Report, error) {
	labels := map[string]string{"unit": pu.ID, "type": pu.Type}
	start := time.Now()

	report, err := pu.Unit.Execute(ctx, classroom)
	elapsed := time.Since(start)
	if r.metrics != nil {
		r.metrics.RecordLatency(MetricUnitLatency, elapsed, labels)
	}

	if err != nil {
		logger.Error("report unit failed",
			zap.String("unit", pu.ID),
			zap.String("type", pu.Type),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		r.recordCounter(MetricUnitFailuresTotal, labels)
		return nil, fmt.Errorf("unit %s: %w", pu.ID, err)
	}

	logger.Debug("report unit finished",
		zap.String("unit", pu.ID),
		zap.Float64("value", report.Value),
		zap.Bool("passed", report.Passed),
		zap.Int("entries", len(report.Entries)),
		zap.Duration("elapsed", elapsed))
	if r.metrics != nil {
		r.metrics.RecordHistogram(MetricReportEntries, float64(len(report.Entries)), labels)
	}
	return report, nil
}

func (r *Runner) recordRun(plan *ReportPlan, classroom *domain.Classroom, result *domain.RunResult) {
	if r.metrics == nil {
		return
	}
	labels := map[string]string{"plan": plan.Name}
	r.metrics.RecordGauge(MetricClassroomStudents, float64(result.Students), labels)
	r.metrics.RecordGauge(MetricClassroomAverage, classroom.AverageScore(), labels)
	r.metrics.RecordLatency("report_run", result.Duration, map[string]string{
		"unit":  "runner",
		"units": strconv.Itoa(len(plan.Units)),
	})
}

func (r *Runner) recordCounter(metric string, labels map[string]string) {
	if r.metrics != nil {
		r.metrics.RecordCounter(metric, 1, labels)
	}
}
