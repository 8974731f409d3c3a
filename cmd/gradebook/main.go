// Command gradebook loads a class roster and prints the reports of a report
// plan run over it.
//
// Usage:
//
//	gradebook -roster class.xlsx [-config plan.yaml] [-format text|json]
//
// Without -config a built-in plan is used: class average, successful and
// at-risk students, plus the podium of every recorded course.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ahrav/go-gradebook/infrastructure/middleware"
	"github.com/ahrav/go-gradebook/infrastructure/roster"
	"github.com/ahrav/go-gradebook/infrastructure/units"
	"github.com/ahrav/go-gradebook/internal/application"
	"github.com/ahrav/go-gradebook/internal/domain"
)

// Exit codes.
const (
	exitOK          = 0
	exitUnitFailure = 1
	exitUsage       = 2
	exitError       = 3
)

// errUsage marks errors caused by bad command line input.
var errUsage = errors.New("usage error")

type options struct {
	rosterPath  string
	configPath  string
	format      string
	verbose     bool
	concurrency int
	metricsFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := exitCode(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
	stop()
	os.Exit(code)
}

func exitCode(err error) int {
	var runErr *unitFailureError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp), errors.Is(err, errUsage):
		return exitUsage
	case errors.As(err, &runErr):
		return exitUnitFailure
	default:
		return exitError
	}
}

// unitFailureError reports a run whose reports were printed but where some
// units failed.
type unitFailureError struct{ err error }

func (e *unitFailureError) Error() string { return e.err.Error() }
func (e *unitFailureError) Unwrap() error { return e.err }

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("gradebook", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.rosterPath, "roster", "", "Roster file (.yaml, .yml or .xlsx)")
	fs.StringVar(&opts.configPath, "config", "", "Report plan YAML (default: built-in plan)")
	fs.StringVar(&opts.format, "format", "text", "Output format: text or json")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable development logging")
	fs.IntVar(&opts.concurrency, "concurrency", 0, "Units run at once (0: twice the CPU count)")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, err
		}
		return opts, fmt.Errorf("%w: %v", errUsage, err)
	}
	if opts.rosterPath == "" {
		fs.Usage()
		return opts, fmt.Errorf("%w: -roster is required", errUsage)
	}
	if opts.format != "text" && opts.format != "json" {
		return opts, fmt.Errorf("%w: unknown format %q", errUsage, opts.format)
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	return opts, nil
}

// newLogger builds a JSON production logger, or a console development
// logger when verbose, writing to stderr.
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if verbose {
		level = zapcore.DebugLevel
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(stderr), level))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := newLogger(opts.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	classroom, err := roster.NewLoader(logger).Load(ctx, opts.rosterPath)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	registry := application.NewDefaultUnitRegistry()
	plan, err := loadPlan(ctx, opts.configPath, registry, classroom)
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	metrics, err := middleware.NewPrometheusMetrics(promRegistry)
	if err != nil {
		return err
	}

	runner := application.NewRunner(logger, metrics)
	runner.SetConcurrencyLimit(opts.concurrency)

	result, runErr := runner.Run(ctx, plan, classroom)
	if result == nil {
		return fmt.Errorf("report run failed: %w", runErr)
	}

	if err := printResult(stdout, result, opts.format); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, promRegistry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "warning: %v\n", runErr)
		return &unitFailureError{err: runErr}
	}
	return nil
}

func loadPlan(
	ctx context.Context,
	path string,
	registry *application.DefaultUnitRegistry,
	classroom *domain.Classroom,
) (*application.ReportPlan, error) {
	if path == "" {
		return defaultPlan(registry, classroom)
	}

	loader, err := application.NewReportLoader(registry)
	if err != nil {
		return nil, err
	}
	plan, err := loader.LoadFromFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load report plan: %w", err)
	}
	return plan, nil
}

// defaultPlan reports on the whole class and on every course of classroom.
func defaultPlan(registry *application.DefaultUnitRegistry, classroom *domain.Classroom) (*application.ReportPlan, error) {
	type unitSpec struct {
		id, unitType string
		params       map[string]any
	}
	specs := []unitSpec{
		{"class-average", units.TypeClassAverage, nil},
		{"successful", units.TypeSuccessfulStudents, nil},
		{"at-risk", units.TypeAtRisk, nil},
	}
	for _, course := range classroom.Courses() {
		specs = append(specs, unitSpec{"top-" + course, units.TypeTopScorers, map[string]any{"course": course}})
	}

	planned := make([]application.PlannedUnit, 0, len(specs))
	for _, s := range specs {
		unit, err := registry.CreateUnit(s.unitType, s.id, s.params)
		if err != nil {
			return nil, err
		}
		planned = append(planned, application.PlannedUnit{ID: s.id, Type: s.unitType, Unit: unit})
	}
	return application.NewReportPlan("default", planned...), nil
}

func printResult(w io.Writer, result *domain.RunResult, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Plan %s: %d students, %d reports\n", result.Plan, result.Students, len(result.Reports))
	for _, report := range result.Reports {
		fmt.Fprintln(tw)
		title := report.Unit
		if report.Course != "" {
			title += " (" + report.Course + ")"
		}
		status := "ok"
		if !report.Passed {
			status = "below threshold"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", title, report.Kind, report.Value, status)
		for _, e := range report.Entries {
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t%.2f\t%s\n",
				e.Rank, e.RegistrationNumber, e.Name, e.Value, strings.Join(e.Courses, ", "))
		}
	}
	return tw.Flush()
}
