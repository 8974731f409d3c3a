package application

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-gradebook/infrastructure/units"
	"github.com/ahrav/go-gradebook/internal/domain"
)

// unitIDPattern allows letters, digits, dashes and underscores so unit IDs
// stay readable in logs and metric labels.
var unitIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// registerCustomValidators registers domain-specific validation functions
// with the validator instance.
// registerCustomValidators returns an error if any validator registration fails.
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}

	if err := v.RegisterValidation("unitid", validateUnitID); err != nil {
		return fmt.Errorf("failed to register unitid validator: %w", err)
	}

	return nil
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3 && major >= 0 && minor >= 0 && patch >= 0
}

func validateUnitID(fl validator.FieldLevel) bool {
	return unitIDPattern.MatchString(fl.Field().String())
}

// ValidateCourseName checks that a course name referenced by configuration
// could appear in a roster. It applies domain.ValidateCourseName.
func ValidateCourseName(course string) error {
	return domain.ValidateCourseName(course)
}

// ValidateUnitParameters validates the parameters for a specific unit type
// before the unit is built, so configuration mistakes are reported with
// the unit ID rather than as a factory failure.
// Types registered at runtime through RegisterUnitFactory are validated by
// their own factory and pass here unchecked.
// ValidateUnitParameters returns an error if parameter decoding fails
// or if any validation rule is violated.
func ValidateUnitParameters(unitType string, params yaml.Node) error {
	paramMap, err := decodeParameters(params)
	if err != nil {
		return err
	}

	switch unitType {
	case units.TypeTopScorers, units.TypeCourseStats:
		return validateCourseParam(unitType, paramMap)
	case units.TypeSuccessfulStudents, units.TypeAtRisk, units.TypeClassAverage:
		if _, ok := paramMap["course"]; ok {
			return fmt.Errorf("%s does not accept a 'course' parameter", unitType)
		}
		return nil
	default:
		return nil
	}
}

// validateCourseParam requires a well-formed string 'course' parameter.
func validateCourseParam(unitType string, params map[string]any) error {
	raw, ok := params["course"]
	if !ok {
		return fmt.Errorf("%s requires 'course' parameter", unitType)
	}

	course, ok := raw.(string)
	if !ok {
		return fmt.Errorf("course must be a string")
	}

	return ValidateCourseName(course)
}

// decodeParameters converts a YAML parameters node into a generic map.
// An absent node decodes to an empty map.
func decodeParameters(params yaml.Node) (map[string]any, error) {
	paramMap := make(map[string]any)
	if params.Kind == 0 {
		return paramMap, nil
	}
	if err := params.Decode(&paramMap); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	return paramMap, nil
}
