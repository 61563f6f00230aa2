package model

// FieldType enumerates the supported field kinds a calculator step may carry.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeFile     FieldType = "file"
)

// Option is one selectable choice for select/radio/checkbox fields.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Field models a single data-entry control. Name doubles as the value key and
// the formula variable token, so it must be unique across the whole
// configuration.
type Field struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []Option  `json:"options,omitempty" yaml:"options,omitempty"`

	// Numeric constraints, advisory UI hints for type=number only.
	Min  *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step *float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// HasOptions reports whether the field kind draws from a configured option
// list.
func (f Field) HasOptions() bool {
	switch f.Type {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// Step is one page of the wizard. A step with zero fields is valid and
// renders empty.
type Step struct {
	Title  string  `json:"title" yaml:"title"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// PriceCalculation toggles the live price estimate and carries the
// admin-authored arithmetic formula over field names.
type PriceCalculation struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Formula string `json:"formula,omitempty" yaml:"formula,omitempty"`
}

// CalculatorConfig is the root configuration document. It is supplied once at
// construction time and treated as immutable for the rest of the session.
type CalculatorConfig struct {
	Title            string           `json:"title" yaml:"title"`
	ButtonText       string           `json:"buttonText" yaml:"buttonText"`
	ProductID        int64            `json:"productId" yaml:"productId"`
	Steps            []Step           `json:"steps" yaml:"steps"`
	PriceCalculation PriceCalculation `json:"priceCalculation" yaml:"priceCalculation"`
}

// FieldByName scans every step for the named field.
func (c CalculatorConfig) FieldByName(name string) (Field, bool) {
	for _, step := range c.Steps {
		for _, field := range step.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return Field{}, false
}

// Fields returns all fields across steps in wizard order.
func (c CalculatorConfig) Fields() []Field {
	var out []Field
	for _, step := range c.Steps {
		out = append(out, step.Fields...)
	}
	return out
}

// LastStepIndex returns the index of the final step, or -1 when the
// configuration carries no steps.
func (c CalculatorConfig) LastStepIndex() int {
	return len(c.Steps) - 1
}
