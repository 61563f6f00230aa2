package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errProductMissing = errors.New("calculator config: product id is required")
	errNoSteps        = errors.New("calculator config: at least one step is required")
)

// Validate checks the structural invariants of a configuration document:
// a positive product id, at least one step, non-empty field names unique
// across all steps, known field types, and option values unique within each
// field. It returns the first violation found.
func (c CalculatorConfig) Validate() error {
	if c.ProductID <= 0 {
		return errProductMissing
	}
	if len(c.Steps) == 0 {
		return errNoSteps
	}

	seen := make(map[string]struct{})
	for stepIdx, step := range c.Steps {
		for _, field := range step.Fields {
			name := strings.TrimSpace(field.Name)
			if name == "" {
				return fmt.Errorf("calculator config: step %d has a field with an empty name", stepIdx)
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("calculator config: duplicate field name %q", name)
			}
			seen[name] = struct{}{}

			if err := validateField(field); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateField(field Field) error {
	switch field.Type {
	case FieldTypeText, FieldTypeNumber, FieldTypeSelect, FieldTypeRadio,
		FieldTypeCheckbox, FieldTypeTextarea, FieldTypeFile:
	default:
		return fmt.Errorf("calculator config: field %q has unknown type %q", field.Name, field.Type)
	}

	if field.HasOptions() {
		values := make(map[string]struct{}, len(field.Options))
		for _, option := range field.Options {
			if _, dup := values[option.Value]; dup {
				return fmt.Errorf("calculator config: field %q repeats option value %q", field.Name, option.Value)
			}
			values[option.Value] = struct{}{}
		}
	}
	return nil
}
