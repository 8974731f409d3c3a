package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

// PlannedUnit is a report unit built from configuration, together with the
// type it was built from.
type PlannedUnit struct {
	ID   string
	Type string
	Unit ports.Unit
}

// ReportPlan is a compiled report configuration: the units to run in the
// order their reports are returned.
// Plans returned by ReportLoader are cached and shared; callers must treat
// them as read-only.
type ReportPlan struct {
	Name        string
	Description string
	Tags        []string
	// Concurrency is the configured unit parallelism, 0 for the runner default.
	Concurrency int
	// Hash is the SHA256 of the normalized configuration.
	Hash  string
	Units []PlannedUnit
}

// NewReportPlan assembles a plan from already built units, keeping their order.
// It is meant for plans defined in code rather than loaded from YAML.
func NewReportPlan(name string, units ...PlannedUnit) *ReportPlan {
	return &ReportPlan{Name: name, Units: slices.Clone(units)}
}

// ReportLoader provides YAML configuration parsing, validation, and caching
// for report plans, transforming declarative YAML into runnable plans.
// Identical configurations are compiled once: plans are cached by the
// SHA256 hash of their normalized configuration.
type ReportLoader struct {
	// validator performs struct field validation plus the custom
	// semver and unitid rules.
	validator *validator.Validate
	// unitRegistry builds report units from their type and parameters.
	unitRegistry ports.UnitRegistry
	// cache stores compiled plans indexed by configuration hash.
	cache   map[string]*ReportPlan
	cacheMu sync.RWMutex
	// sf prevents duplicate compilation when multiple goroutines
	// request the same plan simultaneously.
	sf singleflight.Group
}

// NewReportLoader creates a loader backed by unitRegistry.
// NewReportLoader returns an error if validator registration fails.
func NewReportLoader(unitRegistry ports.UnitRegistry) (*ReportLoader, error) {
	v := validator.New()

	if err := registerCustomValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	return &ReportLoader{
		validator:    v,
		unitRegistry: unitRegistry,
		cache:        make(map[string]*ReportPlan),
	}, nil
}

// LoadFromFile loads and compiles a report plan from a YAML file.
// A missing file is reported as ports.ErrConfigNotFound.
func (rl *ReportLoader) LoadFromFile(ctx context.Context, path string) (*ReportPlan, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ports.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return rl.LoadFromBytes(ctx, data)
}

// LoadFromReader loads and compiles a report plan from r.
func (rl *ReportLoader) LoadFromReader(ctx context.Context, r io.Reader) (*ReportPlan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	return rl.LoadFromBytes(ctx, data)
}

// LoadFromBytes loads and compiles a report plan from raw YAML.
// LoadFromBytes returns an error if parsing, validation, or unit
// construction fails.
func (rl *ReportLoader) LoadFromBytes(ctx context.Context, data []byte) (*ReportPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config, err := rl.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Hash the normalized config so formatting differences share a cache entry.
	hash, err := rl.calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := rl.sf.Do(hash, func() (any, error) {
		if plan, ok := rl.getCachedPlan(hash); ok {
			return plan, nil
		}

		if err := rl.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}

		plan, err := rl.buildPlan(config)
		if err != nil {
			return nil, fmt.Errorf("failed to build plan: %w", err)
		}
		plan.Hash = hash

		rl.cachePlan(hash, plan)
		return plan, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*ReportPlan), nil
}

// parseYAML decodes strictly so configuration typos are not silently ignored.
func (rl *ReportLoader) parseYAML(data []byte) (*ReportConfig, error) {
	var config ReportConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &config, nil
}

func (rl *ReportLoader) validateConfig(config *ReportConfig) error {
	if err := rl.validator.Struct(config); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}

	if err := rl.validateSemantics(config); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}

	return nil
}

// validateSemantics checks rules struct tags cannot express: unit IDs are
// unique, types are registered and parameters fit their type. Every problem
// is collected into one *domain.ValidationError.
func (rl *ReportLoader) validateSemantics(config *ReportConfig) error {
	supported := rl.unitRegistry.GetSupportedTypes()
	seen := make(map[string]struct{}, len(config.Units))
	problems := domain.NewValidationError("ReportConfig")

	for _, unit := range config.Units {
		if _, exists := seen[unit.ID]; exists {
			problems.AddError(fmt.Sprintf("duplicate unit ID %q", unit.ID))
		}
		seen[unit.ID] = struct{}{}

		if !slices.Contains(supported, unit.Type) {
			problems.AddError(fmt.Sprintf("unit %s has unknown type %q (supported: %v)", unit.ID, unit.Type, supported))
			continue
		}

		if err := ValidateUnitParameters(unit.Type, unit.Parameters); err != nil {
			problems.AddError(fmt.Sprintf("unit %s parameter validation failed: %v", unit.ID, err))
		}
	}

	if problems.HasErrors() {
		return problems
	}
	return nil
}

// buildPlan instantiates every unit through the registry, in config order.
func (rl *ReportLoader) buildPlan(config *ReportConfig) (*ReportPlan, error) {
	plan := &ReportPlan{
		Name:        config.Metadata.Name,
		Description: config.Metadata.Description,
		Tags:        slices.Clone(config.Metadata.Tags),
		Concurrency: config.Concurrency,
		Units:       make([]PlannedUnit, 0, len(config.Units)),
	}

	for _, unitConfig := range config.Units {
		unit, err := rl.createUnit(unitConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create unit %s: %w", unitConfig.ID, err)
		}
		plan.Units = append(plan.Units, PlannedUnit{ID: unitConfig.ID, Type: unitConfig.Type, Unit: unit})
	}

	return plan, nil
}

func (rl *ReportLoader) createUnit(config UnitConfig) (ports.Unit, error) {
	params, err := decodeParameters(config.Parameters)
	if err != nil {
		return nil, err
	}

	unit, err := rl.unitRegistry.CreateUnit(config.Type, config.ID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}

	return unit, nil
}

// calculateConfigHash computes the SHA256 hash of a normalized ReportConfig,
// so semantically identical configurations share a hash regardless of
// whitespace or comments.
func (rl *ReportLoader) calculateConfigHash(config *ReportConfig) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

func (rl *ReportLoader) getCachedPlan(hash string) (*ReportPlan, bool) {
	rl.cacheMu.RLock()
	defer rl.cacheMu.RUnlock()

	plan, ok := rl.cache[hash]
	return plan, ok
}

func (rl *ReportLoader) cachePlan(hash string, plan *ReportPlan) {
	rl.cacheMu.Lock()
	defer rl.cacheMu.Unlock()

	rl.cache[hash] = plan
}

// ClearCache drops every cached plan, forcing subsequent loads to recompile.
func (rl *ReportLoader) ClearCache() {
	rl.cacheMu.Lock()
	defer rl.cacheMu.Unlock()

	rl.cache = make(map[string]*ReportPlan)
}
