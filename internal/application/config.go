// Package application orchestrates report plans: it loads them from YAML,
// builds their units through a registry and runs them over a classroom.
package application

import (
	"gopkg.in/yaml.v3"
)

// ReportConfig defines the complete definition of a report plan
// and serves as the primary configuration entry point for the system.
// A plan is an ordered list of report units evaluated against one classroom.
type ReportConfig struct {
	// Version specifies the configuration schema version using semantic
	// versioning to ensure compatibility across system updates.
	Version string `yaml:"version" validate:"required,semver"`
	// Metadata contains descriptive information about the report plan.
	Metadata Metadata `yaml:"metadata" validate:"required"`
	// Units defines the report units in the order their results are returned.
	Units []UnitConfig `yaml:"units" validate:"required,min=1,max=100,dive"`
	// Concurrency caps how many units run at once. Zero selects the runner default.
	Concurrency int `yaml:"concurrency,omitempty" validate:"min=0,max=64"`
}

// Metadata provides descriptive information about a report plan
// to support organization and discovery.
type Metadata struct {
	// Name is the human-readable identifier for this plan.
	Name string `yaml:"name" validate:"required,min=1,max=255"`
	// Description explains what the plan reports on.
	Description string `yaml:"description" validate:"max=1000"`
	// Tags are categorical labels such as a term or a cohort.
	Tags []string `yaml:"tags" validate:"max=20,dive,min=1,max=50"`
}

// UnitConfig defines a single report unit within a plan.
type UnitConfig struct {
	// ID is the unique identifier for this unit within the plan. It names
	// the unit's report in the run result.
	ID string `yaml:"id" validate:"required,unitid,min=1,max=100"`
	// Type specifies the report unit implementation to instantiate.
	Type string `yaml:"type" validate:"required,min=1,max=100"`
	// Parameters contains type-specific configuration as flexible YAML
	// that is validated according to the unit type requirements.
	Parameters yaml.Node `yaml:"parameters,omitempty"`
}
