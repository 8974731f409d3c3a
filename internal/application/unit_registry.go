package application

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ahrav/go-gradebook/infrastructure/units"
	"github.com/ahrav/go-gradebook/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.UnitRegistry = (*DefaultUnitRegistry)(nil)

// DefaultUnitRegistry implements the UnitRegistry interface providing
// a factory for creating report units based on type and configuration.
// It supports dynamic registration of unit factories.
type DefaultUnitRegistry struct {
	// factories maps unit type strings to their factory functions.
	factories map[string]ports.UnitFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
}

// NewDefaultUnitRegistry creates a new unit registry with the built-in
// report unit types pre-registered.
func NewDefaultUnitRegistry() *DefaultUnitRegistry {
	registry := &DefaultUnitRegistry{
		factories: make(map[string]ports.UnitFactory),
	}

	registry.registerBuiltinFactories()

	return registry
}

// registerBuiltinFactories registers the standard report unit types.
func (r *DefaultUnitRegistry) registerBuiltinFactories() {
	r.factories[units.TypeTopScorers] = unitFactory(units.CreateTopScorersUnit)
	r.factories[units.TypeSuccessfulStudents] = unitFactory(units.CreateSuccessfulStudentsUnit)
	r.factories[units.TypeClassAverage] = unitFactory(units.CreateClassAverageUnit)
	r.factories[units.TypeCourseStats] = unitFactory(units.CreateCourseStatsUnit)
	r.factories[units.TypeAtRisk] = unitFactory(units.CreateAtRiskUnit)
}

// unitFactory adapts a concrete unit constructor to ports.UnitFactory.
// A failed construction yields a nil interface, never a typed nil.
func unitFactory[U ports.Unit](create func(string, map[string]any) (U, error)) ports.UnitFactory {
	return func(id string, config map[string]any) (ports.Unit, error) {
		unit, err := create(id, config)
		if err != nil {
			return nil, err
		}
		return unit, nil
	}
}

// CreateUnit creates a new unit instance based on the provided type,
// identifier, and configuration.
func (r *DefaultUnitRegistry) CreateUnit(
	unitType string,
	id string,
	config map[string]any,
) (ports.Unit, error) {
	r.mu.RLock()
	factory, exists := r.factories[unitType]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported unit type: %s", unitType)
	}

	if id == "" {
		return nil, fmt.Errorf("unit ID cannot be empty")
	}

	if config == nil {
		config = make(map[string]any)
	}

	unit, err := factory(id, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create unit %s of type %s: %w", id, unitType, err)
	}

	return unit, nil
}

// RegisterUnitFactory registers a new factory function for a specific unit type.
// Registering an existing type replaces its factory.
func (r *DefaultUnitRegistry) RegisterUnitFactory(
	unitType string,
	factory ports.UnitFactory,
) error {
	if unitType == "" {
		return fmt.Errorf("unit type cannot be empty")
	}

	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[unitType] = factory
	return nil
}

// GetSupportedTypes returns every registered unit type in sorted order.
func (r *DefaultUnitRegistry) GetSupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for unitType := range r.factories {
		types = append(types, unitType)
	}
	slices.Sort(types)

	return types
}
