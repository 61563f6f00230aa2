package calculator

import (
	"github.com/telexlabs/go-prodcalc/pkg/gateway"
	"github.com/telexlabs/go-prodcalc/pkg/model"
)

// StepState classifies one progress-rail entry relative to the current step.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepActive    StepState = "active"
	StepUpcoming  StepState = "upcoming"
)

// ProgressEntry is one indicator on the progress rail.
type ProgressEntry struct {
	Title string
	State StepState
}

// Snapshot is an immutable view of the session handed to renderers. Maps and
// slices are copied so a renderer can never mutate live state.
type Snapshot struct {
	Phase      Phase
	Title      string
	ButtonText string

	StepIndex int
	LastStep  bool
	Step      model.Step
	Progress  []ProgressEntry

	Values  map[string]any
	Uploads map[string]gateway.FileRef
	Errors  map[string]string

	PriceEnabled bool
	Price        string
	HasPrice     bool

	Result         gateway.SubmitResult
	FailureMessage string
}

// Snapshot captures the current session state for rendering.
func (c *Calculator) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:          c.phase,
		Title:          c.cfg.Title,
		ButtonText:     c.cfg.ButtonText,
		StepIndex:      c.stepIndex,
		LastStep:       c.stepIndex == c.cfg.LastStepIndex(),
		Step:           c.cfg.Steps[c.stepIndex],
		Progress:       c.progress(),
		Values:         copyValues(c.values),
		Uploads:        copyUploads(c.uploaded),
		Errors:         copyStrings(c.errors),
		PriceEnabled:   c.cfg.PriceCalculation.Enabled,
		Price:          c.price,
		HasPrice:       c.hasPrice,
		Result:         c.result,
		FailureMessage: c.failure,
	}
	return snap
}

func (c *Calculator) progress() []ProgressEntry {
	entries := make([]ProgressEntry, len(c.cfg.Steps))
	for i, step := range c.cfg.Steps {
		state := StepUpcoming
		switch {
		case i < c.stepIndex:
			state = StepCompleted
		case i == c.stepIndex:
			state = StepActive
		}
		entries[i] = ProgressEntry{Title: step.Title, State: state}
	}
	return entries
}

func copyValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for name, value := range src {
		if slice, ok := value.([]string); ok {
			out[name] = append([]string(nil), slice...)
			continue
		}
		out[name] = value
	}
	return out
}

func copyUploads(src map[string]gateway.FileRef) map[string]gateway.FileRef {
	out := make(map[string]gateway.FileRef, len(src))
	for name, ref := range src {
		out[name] = ref
	}
	return out
}

func copyStrings(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for name, value := range src {
		out[name] = value
	}
	return out
}
