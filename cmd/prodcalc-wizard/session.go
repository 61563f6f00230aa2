package main

import (
	"context"
	"fmt"
	"os"

	"github.com/telexlabs/go-prodcalc/pkg/calculator"
	"github.com/telexlabs/go-prodcalc/pkg/model"
	"github.com/telexlabs/go-prodcalc/pkg/validate"
)

const (
	navNext     = "Next"
	navSubmit   = "Add to cart"
	navPrevious = "Previous"
	navRetry    = "Try again"
	navQuit     = "Quit"
)

// session walks the wizard steps, prompting for each field and navigating
// until the submission settles or the user quits.
type session struct {
	calc   *calculator.Calculator
	driver promptDriver
}

func (s *session) run(ctx context.Context) error {
	cfg := s.calc.Config()
	if cfg.Title != "" {
		if err := s.driver.Info(ctx, "== "+cfg.Title+" =="); err != nil {
			return err
		}
	}

	for {
		switch s.calc.Phase() {
		case calculator.PhaseStep:
			if err := s.runStep(ctx); err != nil {
				return err
			}
		case calculator.PhaseSucceeded:
			result := s.calc.SubmitResult()
			message := result.Message
			if message == "" {
				message = "Added to cart!"
			}
			if err := s.driver.Info(ctx, message); err != nil {
				return err
			}
			if result.CartURL != "" {
				return s.driver.Info(ctx, "View your cart: "+result.CartURL)
			}
			return nil
		case calculator.PhaseFailed:
			if err := s.runFailure(ctx); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected phase %q", s.calc.Phase())
		}
	}
}

func (s *session) runStep(ctx context.Context) error {
	step := s.calc.CurrentStep()
	snap := s.calc.Snapshot()

	header := fmt.Sprintf("-- Step %d of %d", snap.StepIndex+1, len(snap.Progress))
	if step.Title != "" {
		header += ": " + step.Title
	}
	if err := s.driver.Info(ctx, header); err != nil {
		return err
	}

	for _, field := range step.Fields {
		if err := s.promptField(ctx, field); err != nil {
			return err
		}
	}

	if price, ok := s.calc.Price(); ok {
		if err := s.driver.Info(ctx, "Estimated price: $"+price); err != nil {
			return err
		}
	}

	return s.navigate(ctx)
}

func (s *session) promptField(ctx context.Context, field model.Field) error {
	snap := s.calc.Snapshot()
	message := field.Label
	if message == "" {
		message = field.Name
	}
	if field.Required {
		message += " *"
	}

	switch field.Type {
	case model.FieldTypeText, model.FieldTypeNumber:
		value, err := s.driver.Input(ctx, message, stringValue(snap.Values[field.Name]))
		if err != nil {
			return err
		}
		return s.calc.Edit(field.Name, value)

	case model.FieldTypeTextarea:
		value, err := s.driver.TextArea(ctx, message, stringValue(snap.Values[field.Name]))
		if err != nil {
			return err
		}
		return s.calc.Edit(field.Name, value)

	case model.FieldTypeSelect, model.FieldTypeRadio:
		labels, values := optionLists(field)
		idx, err := s.driver.Select(ctx, message, labels, indexOfValue(values, stringValue(snap.Values[field.Name])))
		if err != nil {
			return err
		}
		if idx < 0 {
			return nil
		}
		return s.calc.Edit(field.Name, values[idx])

	case model.FieldTypeCheckbox:
		labels, values := optionLists(field)
		current, _ := snap.Values[field.Name].([]string)
		picked, err := s.driver.MultiSelect(ctx, message, labels, indicesOfValues(values, current))
		if err != nil {
			return err
		}
		chosen := make(map[int]bool, len(picked))
		for _, idx := range picked {
			chosen[idx] = true
		}
		for i, value := range values {
			if err := s.calc.ToggleOption(field.Name, value, chosen[i]); err != nil {
				return err
			}
		}
		return nil

	case model.FieldTypeFile:
		return s.promptFile(ctx, field, message)

	default:
		return fmt.Errorf("unsupported field type %q", field.Type)
	}
}

func (s *session) promptFile(ctx context.Context, field model.Field, message string) error {
	for {
		path, err := s.driver.Input(ctx, message+" (path, empty to skip)", "")
		if err != nil {
			return err
		}
		if path == "" {
			if !field.Required {
				return nil
			}
			if err := s.driver.Info(ctx, validate.RequiredMessage); err != nil {
				return err
			}
			continue
		}

		file, err := os.Open(path)
		if err != nil {
			if err := s.driver.Info(ctx, "Cannot open file: "+err.Error()); err != nil {
				return err
			}
			continue
		}
		info, err := file.Stat()
		if err != nil {
			file.Close()
			if err := s.driver.Info(ctx, "Cannot read file: "+err.Error()); err != nil {
				return err
			}
			continue
		}

		attachErr := s.calc.AttachFile(ctx, field.Name, info.Name(), info.Size(), file)
		file.Close()
		if attachErr != nil {
			return attachErr
		}

		snap := s.calc.Snapshot()
		if msg, failed := snap.Errors[field.Name]; failed {
			if err := s.driver.Info(ctx, msg); err != nil {
				return err
			}
			continue
		}
		if ref, ok := snap.Uploads[field.Name]; ok {
			return s.driver.Info(ctx, "Uploaded "+ref.Name)
		}
		return nil
	}
}

func (s *session) navigate(ctx context.Context) error {
	options := []string{navNext}
	if s.calc.StepIndex() == s.calc.Config().LastStepIndex() {
		options = []string{navSubmit}
	}
	if s.calc.CanGoBack() {
		options = append(options, navPrevious)
	}
	options = append(options, navQuit)

	idx, err := s.driver.Select(ctx, "Continue?", options, 0)
	if err != nil {
		return err
	}

	switch options[idx] {
	case navPrevious:
		s.calc.Previous()
		return nil
	case navQuit:
		return fmt.Errorf("session abandoned")
	default:
		outcome := s.calc.Next(ctx)
		if outcome == calculator.OutcomeBlocked {
			return s.reportErrors(ctx)
		}
		return nil
	}
}

func (s *session) runFailure(ctx context.Context) error {
	if err := s.driver.Info(ctx, "Error: "+s.calc.FailureMessage()); err != nil {
		return err
	}

	idx, err := s.driver.Select(ctx, "What now?", []string{navRetry, navQuit}, 0)
	if err != nil {
		return err
	}
	if idx != 0 {
		return fmt.Errorf("session abandoned")
	}
	s.calc.Retry(ctx)
	return nil
}

func (s *session) reportErrors(ctx context.Context) error {
	snap := s.calc.Snapshot()
	for _, field := range snap.Step.Fields {
		if msg, ok := snap.Errors[field.Name]; ok {
			label := field.Label
			if label == "" {
				label = field.Name
			}
			if err := s.driver.Info(ctx, label+": "+msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func optionLists(field model.Field) (labels, values []string) {
	labels = make([]string, len(field.Options))
	values = make([]string, len(field.Options))
	for i, option := range field.Options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		labels[i] = label
		values[i] = option.Value
	}
	return labels, values
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}

func indexOfValue(values []string, current string) int {
	if current == "" {
		return -1
	}
	for i, value := range values {
		if value == current {
			return i
		}
	}
	return -1
}

func indicesOfValues(values, current []string) []int {
	seen := make(map[string]struct{}, len(current))
	for _, v := range current {
		seen[v] = struct{}{}
	}
	var out []int
	for i, value := range values {
		if _, ok := seen[value]; ok {
			out = append(out, i)
		}
	}
	return out
}
