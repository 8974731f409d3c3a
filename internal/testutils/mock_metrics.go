package testutils

import (
	"maps"
	"sync"
	"time"

	"github.com/ahrav/go-gradebook/internal/ports"
)

var _ ports.MetricsCollector = (*MockMetricsCollector)(nil)

// MetricCall is one call recorded by MockMetricsCollector.
type MetricCall struct {
	Kind   string // "latency", "counter", "gauge" or "histogram"
	Metric string
	Value  float64
	Labels map[string]string
}

// MockMetricsCollector records every call for later assertions.
// It is safe for concurrent use.
type MockMetricsCollector struct {
	mu    sync.Mutex
	calls []MetricCall
}

// NewMockMetricsCollector creates an empty collector.
func NewMockMetricsCollector() *MockMetricsCollector {
	return &MockMetricsCollector{}
}

func (m *MockMetricsCollector) record(kind, metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MetricCall{Kind: kind, Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// RecordLatency records duration in seconds.
func (m *MockMetricsCollector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	m.record("latency", operation, duration.Seconds(), labels)
}

// RecordCounter records a counter increment.
func (m *MockMetricsCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	m.record("counter", metric, value, labels)
}

// RecordGauge records a gauge value.
func (m *MockMetricsCollector) RecordGauge(metric string, value float64, labels map[string]string) {
	m.record("gauge", metric, value, labels)
}

// RecordHistogram records a histogram observation.
func (m *MockMetricsCollector) RecordHistogram(metric string, value float64, labels map[string]string) {
	m.record("histogram", metric, value, labels)
}

// Calls returns a copy of every recorded call in order.
func (m *MockMetricsCollector) Calls() []MetricCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MetricCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// Find returns the calls recorded for metric.
func (m *MockMetricsCollector) Find(metric string) []MetricCall {
	var found []MetricCall
	for _, c := range m.Calls() {
		if c.Metric == metric {
			found = append(found, c)
		}
	}
	return found
}

// Sum adds up the values recorded for metric whose labels include every
// pair in match.
func (m *MockMetricsCollector) Sum(metric string, match map[string]string) float64 {
	total := 0.0
	for _, c := range m.Find(metric) {
		ok := true
		for k, v := range match {
			if c.Labels[k] != v {
				ok = false
				break
			}
		}
		if ok {
			total += c.Value
		}
	}
	return total
}
