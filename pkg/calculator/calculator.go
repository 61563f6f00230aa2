// Package calculator implements the step-wizard state machine: it owns the
// accumulated form state, drives navigation and validation, recomputes the
// price estimate on every edit, and hands the final payload to the cart
// gateway.
//
// A Calculator is single-threaded by design: callers invoke its methods from
// one event loop, and the renderer reads immutable snapshots between events.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/telexlabs/go-prodcalc/pkg/formula"
	"github.com/telexlabs/go-prodcalc/pkg/gateway"
	"github.com/telexlabs/go-prodcalc/pkg/model"
	"github.com/telexlabs/go-prodcalc/pkg/validate"
)

// Phase is the coarse state of the wizard session.
type Phase string

const (
	PhaseStep       Phase = "step"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Outcome reports what a Next or Retry call did.
type Outcome int

const (
	// OutcomeBlocked means validation failed or the call was not legal in
	// the current phase; field errors carry the details.
	OutcomeBlocked Outcome = iota
	// OutcomeAdvanced means the wizard moved to the following step.
	OutcomeAdvanced
	// OutcomeSucceeded means the submission was accepted by the cart.
	OutcomeSucceeded
	// OutcomeFailed means the submission was rejected; Retry is available.
	OutcomeFailed
)

// Failure messages shown when a transport error is folded into the uniform
// ok:false handling.
const (
	uploadFailedMessage = "Upload failed. Please try again."
	submitFailedMessage = "An error occurred. Please try again."
)

var (
	// ErrUnknownField is returned for edits addressed at a name absent
	// from the configuration.
	ErrUnknownField = errors.New("calculator: unknown field")
	// ErrBusy is returned when an upload or submission is already in
	// flight for the addressed affordance.
	ErrBusy = errors.New("calculator: operation already in flight")
	// ErrWrongPhase is returned when a file is attached outside a step
	// phase.
	ErrWrongPhase = errors.New("calculator: not accepting input in this phase")
)

// Calculator is the orchestrator. It is the only component with mutable
// state; renderers and evaluators work over snapshots.
type Calculator struct {
	cfg     model.CalculatorConfig
	uploads gateway.UploadGateway
	cart    gateway.CartGateway
	logger  Logger

	phase     Phase
	stepIndex int
	values    map[string]any
	uploaded  map[string]gateway.FileRef
	errors    map[string]string

	price    string
	hasPrice bool

	uploading  map[string]bool
	submitting bool

	payload *gateway.SubmitRequest
	result  gateway.SubmitResult
	failure string
}

// Logger is the diagnostics sink for silent evaluation failures. The stdlib
// *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Option configures a Calculator at construction time.
type Option func(*Calculator)

// WithLogger routes evaluation diagnostics to the given logger.
func WithLogger(logger Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New validates the configuration and starts a session at step 0. The
// gateways may be nil when the corresponding field kinds are absent from the
// configuration; calls that would need them fail with a recoverable error.
func New(cfg model.CalculatorConfig, uploads gateway.UploadGateway, cart gateway.CartGateway, options ...Option) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Calculator{
		cfg:       cfg,
		uploads:   uploads,
		cart:      cart,
		logger:    nopLogger{},
		phase:     PhaseStep,
		values:    make(map[string]any),
		uploaded:  make(map[string]gateway.FileRef),
		errors:    make(map[string]string),
		uploading: make(map[string]bool),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}

	c.recomputePrice()
	return c, nil
}

// Config returns the immutable session configuration.
func (c *Calculator) Config() model.CalculatorConfig { return c.cfg }

// Phase returns the coarse wizard state.
func (c *Calculator) Phase() Phase { return c.phase }

// StepIndex returns the current step position.
func (c *Calculator) StepIndex() int { return c.stepIndex }

// CurrentStep returns the step definition being displayed.
func (c *Calculator) CurrentStep() model.Step { return c.cfg.Steps[c.stepIndex] }

// CanGoBack reports whether a previous transition is available.
func (c *Calculator) CanGoBack() bool { return c.phase == PhaseStep && c.stepIndex > 0 }

// Price returns the last successfully computed price display value. The
// second return is false until a first evaluation succeeds.
func (c *Calculator) Price() (string, bool) { return c.price, c.hasPrice }

// Edit records a new value for the named field, clears that field's error,
// and recomputes the price estimate. Checkbox fields take []string values;
// everything else takes strings.
func (c *Calculator) Edit(name string, value any) error {
	if c.phase != PhaseStep {
		return ErrWrongPhase
	}
	if _, ok := c.cfg.FieldByName(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	c.values[name] = value
	delete(c.errors, name)
	c.recomputePrice()
	return nil
}

// ToggleOption flips one checkbox option on or off, maintaining the field's
// value as a string slice in configuration order.
func (c *Calculator) ToggleOption(name, option string, checked bool) error {
	field, ok := c.cfg.FieldByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if field.Type != model.FieldTypeCheckbox {
		return fmt.Errorf("calculator: field %q is not a checkbox", name)
	}

	current, _ := c.values[name].([]string)
	selected := make(map[string]bool, len(current)+1)
	for _, v := range current {
		selected[v] = true
	}
	selected[option] = checked

	next := make([]string, 0, len(field.Options))
	for _, opt := range field.Options {
		if selected[opt.Value] {
			next = append(next, opt.Value)
		}
	}
	return c.Edit(name, next)
}

// Previous moves one step back. It never validates and reports whether a
// move happened.
func (c *Calculator) Previous() bool {
	if !c.CanGoBack() {
		return false
	}
	c.stepIndex--
	return true
}

// Next validates the step being left. On a middle step it advances; on the
// last step it submits the accumulated values to the cart gateway. A
// validation failure keeps the wizard in place and populates field errors.
func (c *Calculator) Next(ctx context.Context) Outcome {
	if c.phase != PhaseStep || c.submitting {
		return OutcomeBlocked
	}

	result := validate.Step(c.CurrentStep(), c.values)
	if !result.Valid {
		for name, message := range result.Errors {
			c.errors[name] = message
		}
		return OutcomeBlocked
	}

	if c.stepIndex < c.cfg.LastStepIndex() {
		c.stepIndex++
		return OutcomeAdvanced
	}

	c.payload = c.buildPayload()
	return c.submit(ctx)
}

// Retry replays the identical submission payload after a failure.
func (c *Calculator) Retry(ctx context.Context) Outcome {
	if c.phase != PhaseFailed || c.payload == nil {
		return OutcomeBlocked
	}
	return c.submit(ctx)
}

// AttachFile runs the file-field sub-protocol: fast-path validation, a
// gateway upload guarded by a per-field busy flag, and on success storing
// both the URL value and the display reference. Failures land as field
// errors and leave the previous value untouched.
func (c *Calculator) AttachFile(ctx context.Context, name, fileName string, size int64, content io.Reader) error {
	if c.phase != PhaseStep {
		return ErrWrongPhase
	}
	field, ok := c.cfg.FieldByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if field.Type != model.FieldTypeFile {
		return fmt.Errorf("calculator: field %q is not a file field", name)
	}
	if c.uploading[name] {
		return ErrBusy
	}

	// Fast-path hint only; the gateway remains the authority.
	if err := validate.Upload(fileName, size); err != nil {
		c.errors[name] = err.Error()
		return nil
	}
	if c.uploads == nil {
		c.errors[name] = uploadFailedMessage
		return nil
	}

	c.uploading[name] = true
	result, err := c.uploads.Upload(ctx, gateway.UploadRequest{
		FieldName: name,
		FileName:  fileName,
		Size:      size,
		Content:   content,
	})
	c.uploading[name] = false

	if err != nil {
		c.errors[name] = uploadFailedMessage
		return nil
	}
	if !result.OK {
		message := result.Message
		if message == "" {
			message = uploadFailedMessage
		}
		c.errors[name] = message
		return nil
	}

	displayName := result.Name
	if displayName == "" {
		displayName = fileName
	}
	// Responses apply by field name, so a late arrival can never clobber
	// a different field.
	c.uploaded[name] = gateway.FileRef{Name: displayName, URL: result.URL}
	c.values[name] = result.URL
	delete(c.errors, name)
	c.recomputePrice()
	return nil
}

// Uploading reports whether an upload is in flight for the named field.
func (c *Calculator) Uploading(name string) bool { return c.uploading[name] }

// SubmitResult returns the last cart response, meaningful in the Succeeded
// phase.
func (c *Calculator) SubmitResult() gateway.SubmitResult { return c.result }

// FailureMessage returns the step-level message shown in the Failed phase.
func (c *Calculator) FailureMessage() string { return c.failure }

func (c *Calculator) submit(ctx context.Context) Outcome {
	if c.cart == nil {
		c.phase = PhaseFailed
		c.failure = submitFailedMessage
		return OutcomeFailed
	}

	c.phase = PhaseSubmitting
	c.submitting = true
	result, err := c.cart.Submit(ctx, *c.payload)
	c.submitting = false

	if err != nil || !result.OK {
		c.phase = PhaseFailed
		c.failure = submitFailedMessage
		if err == nil && result.Message != "" {
			c.failure = result.Message
		}
		return OutcomeFailed
	}

	c.phase = PhaseSucceeded
	c.result = result
	return OutcomeSucceeded
}

func (c *Calculator) buildPayload() *gateway.SubmitRequest {
	values := make(map[string]any, len(c.values))
	for name, value := range c.values {
		if slice, ok := value.([]string); ok {
			values[name] = append([]string(nil), slice...)
			continue
		}
		values[name] = value
	}
	return &gateway.SubmitRequest{
		ProductID: c.cfg.ProductID,
		Quantity:  c.quantity(),
		Values:    values,
	}
}

// quantity reads a field named "quantity" when present, defaulting to 1.
func (c *Calculator) quantity() int {
	raw, ok := c.values["quantity"].(string)
	if !ok {
		return 1
	}
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || qty < 1 {
		return 1
	}
	return qty
}

func (c *Calculator) recomputePrice() {
	if !c.cfg.PriceCalculation.Enabled {
		return
	}
	value, err := formula.Evaluate(c.cfg.PriceCalculation.Formula, c.values)
	if err != nil {
		// Sticky display: keep the previous good price, log and move on.
		c.logger.Printf("price calculation error: %v", err)
		return
	}
	c.price = formula.FormatPrice(value)
	c.hasPrice = true
}
