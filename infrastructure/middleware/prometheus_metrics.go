// Package middleware provides cross-cutting concerns for the report runner.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahrav/go-gradebook/internal/ports"
)

const namespace = "gradebook"

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It exposes report run outcomes, per-unit latency and classroom gauges.
type PrometheusMetrics struct {
	unitLatency      *prometheus.HistogramVec
	runsTotal        *prometheus.CounterVec
	unitFailures     *prometheus.CounterVec
	operationCounter *prometheus.CounterVec
	classroomGauges  *prometheus.GaugeVec
	reportEntries    *prometheus.HistogramVec
	observations     *prometheus.HistogramVec
}

// NewPrometheusMetrics creates the gradebook metrics and registers them with
// reg. Pass prometheus.DefaultRegisterer to expose them on the default
// registry, or a fresh prometheus.NewRegistry() in tests.
// Registration failures, such as registering twice on the same registry,
// are returned as a *ports.MetricsError.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	pm := &PrometheusMetrics{
		unitLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Execution time of report units and runs.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "unit"},
		),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_runs_total",
				Help:      "Total number of report plan runs by outcome.",
			},
			[]string{"plan", "status"},
		),
		unitFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unit_failures_total",
				Help:      "Total number of failed report unit executions.",
			},
			[]string{"unit", "type"},
		),
		operationCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of other recorded operations.",
			},
			[]string{"operation", "unit"},
		),
		classroomGauges: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "classroom_state",
				Help:      "Classroom values observed at the last run.",
			},
			[]string{"metric", "plan"},
		),
		reportEntries: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_entries",
				Help:      "Number of entries per produced report.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"unit"},
		),
		observations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "observations",
				Help:      "Other recorded value distributions.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"metric", "unit"},
		),
	}

	collectors := []struct {
		name      string
		collector prometheus.Collector
	}{
		{"operation_duration_seconds", pm.unitLatency},
		{"report_runs_total", pm.runsTotal},
		{"unit_failures_total", pm.unitFailures},
		{"operations_total", pm.operationCounter},
		{"classroom_state", pm.classroomGauges},
		{"report_entries", pm.reportEntries},
		{"observations", pm.observations},
	}
	for i, c := range collectors {
		if err := reg.Register(c.collector); err != nil {
			// Leave the registry as it was.
			for _, done := range collectors[:i] {
				reg.Unregister(done.collector)
			}
			return nil, ports.NewMetricsError(namespace+"_"+c.name, "register", err)
		}
	}

	return pm, nil
}

// unitLabel returns the "unit" label or "unknown" when it is missing or empty.
func unitLabel(labels map[string]string) string {
	if unit := labels["unit"]; unit != "" {
		return unit
	}
	return "unknown"
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.unitLatency.WithLabelValues(operation, unitLabel(labels)).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "report_runs_total":
		pm.runsTotal.WithLabelValues(labels["plan"], labels["status"]).Add(value)
	case "unit_failures_total":
		pm.unitFailures.WithLabelValues(unitLabel(labels), labels["type"]).Add(value)
	default:
		pm.operationCounter.WithLabelValues(metric, unitLabel(labels)).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.classroomGauges.WithLabelValues(metric, labels["plan"]).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	if metric == "report_entries" {
		pm.reportEntries.WithLabelValues(unitLabel(labels)).Observe(value)
		return
	}
	pm.observations.WithLabelValues(metric, unitLabel(labels)).Observe(value)
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
