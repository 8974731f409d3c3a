package testutils

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

var _ ports.Unit = (*MockUnit)(nil)

// MockUnit is a configurable ports.Unit for runner and loader tests.
type MockUnit struct {
	// UnitName is returned by Name and stamped on produced reports.
	UnitName string
	// Value is the headline value of produced reports.
	Value float64
	// Delay is waited before producing the report, honoring cancellation.
	Delay time.Duration
	// ExecErr, when set, is returned by Execute.
	ExecErr error
	// ValidateErr, when set, is returned by Validate.
	ValidateErr error

	// Tracker, when set, observes overlapping executions. Share one tracker
	// between units to measure a runner's parallelism.
	Tracker *ConcurrencyTracker

	calls atomic.Int32
}

// ConcurrencyTracker records the peak number of simultaneous executions.
type ConcurrencyTracker struct {
	running atomic.Int32
	peak    atomic.Int32
}

func (t *ConcurrencyTracker) enter() {
	now := t.running.Add(1)
	for {
		peak := t.peak.Load()
		if now <= peak || t.peak.CompareAndSwap(peak, now) {
			return
		}
	}
}

func (t *ConcurrencyTracker) leave() { t.running.Add(-1) }

// Peak returns the highest number of simultaneous executions seen.
func (t *ConcurrencyTracker) Peak() int { return int(t.peak.Load()) }

// NewMockUnit creates a unit producing reports with value.
func NewMockUnit(name string, value float64) *MockUnit {
	return &MockUnit{UnitName: name, Value: value}
}

// Name implements ports.Unit.
func (u *MockUnit) Name() string { return u.UnitName }

// Validate implements ports.Unit.
func (u *MockUnit) Validate() error { return u.ValidateErr }

// Execute implements ports.Unit.
func (u *MockUnit) Execute(ctx context.Context, classroom *domain.Classroom) (*domain.Report, error) {
	u.calls.Add(1)
	if u.Tracker != nil {
		u.Tracker.enter()
		defer u.Tracker.leave()
	}

	if u.Delay > 0 {
		select {
		case <-time.After(u.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if u.ExecErr != nil {
		return nil, u.ExecErr
	}

	return &domain.Report{
		ID:        u.UnitName + "-report",
		Unit:      u.UnitName,
		Kind:      "mock",
		Value:     u.Value,
		Passed:    true,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Calls returns how many times Execute ran.
func (u *MockUnit) Calls() int { return int(u.calls.Load()) }
