// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/ahrav/go-gradebook/internal/domain"
)

// Unit represents one report computed over a classroom.
// Each Unit reads the classroom through its accessors and produces a Report,
// enabling composable and reusable reporting logic.
// Units must not mutate the classroom and must be safe for concurrent
// execution over the same classroom.
type Unit interface {
	// Name returns a unique identifier for this unit.
	// The name is used for logging, metrics and report lookup.
	Name() string

	// Execute computes the unit's report over classroom.
	// Any errors during execution should be returned rather than panicking.
	//
	// The context parameter allows for cancellation and deadline propagation.
	// Units should respect context cancellation and return promptly.
	//
	// Example:
	//
	//	report, err := unit.Execute(ctx, classroom)
	//	if err != nil {
	//	    return nil, fmt.Errorf("unit %s failed: %w", unit.Name(), err)
	//	}
	Execute(ctx context.Context, classroom *domain.Classroom) (*domain.Report, error)

	// Validate checks if the unit is properly configured and ready for execution.
	// It is typically called during plan construction or before execution.
	// Return nil if validation passes, or an error describing what is invalid.
	Validate() error
}

// UnitFactory creates a configured Unit from an identifier and a decoded
// parameter map.
type UnitFactory func(id string, config map[string]any) (Unit, error)

// UnitRegistry maps unit type names to factories.
type UnitRegistry interface {
	// CreateUnit builds a unit of unitType named id from config.
	CreateUnit(unitType string, id string, config map[string]any) (Unit, error)

	// RegisterUnitFactory adds or replaces the factory for unitType.
	RegisterUnitFactory(unitType string, factory UnitFactory) error

	// GetSupportedTypes lists the registered unit types.
	GetSupportedTypes() []string
}
