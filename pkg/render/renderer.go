// Package render turns calculator snapshots into HTML. Field controls are
// assembled directly; the widget chrome (title, progress rail, price display,
// navigation) comes from an embedded template so hosts can restyle it.
package render

import (
	"bytes"
	"fmt"
	"html"
	"io/fs"
	"strings"

	"github.com/telexlabs/go-prodcalc/pkg/calculator"
	"github.com/telexlabs/go-prodcalc/pkg/model"
	"github.com/telexlabs/go-prodcalc/pkg/render/template"
	"github.com/telexlabs/go-prodcalc/pkg/render/template/pongo"
)

// Option configures the widget renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	templates  template.Renderer
	registry   *Registry
}

// WithTemplatesFS supplies an alternate chrome template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer template.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithRegistry swaps the field renderer registry.
func WithRegistry(registry *Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// Renderer produces the widget markup for every phase of a session.
type Renderer struct {
	templates template.Renderer
	registry  *Registry
}

// New constructs a renderer, defaulting to the embedded chrome templates and
// the built-in field registry.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = NewDefaultRegistry()
	}

	templates := cfg.templates
	if templates == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("render: configure template engine: %w", err)
		}
		templates = engine
	}

	return &Renderer{templates: templates, registry: cfg.registry}, nil
}

// Render produces the full widget for the snapshot's phase: the active step
// with its fields, the submitting spinner, the success confirmation, or the
// failure panel with its retry affordance.
func (r *Renderer) Render(snap calculator.Snapshot, productID int64) (string, error) {
	content, err := r.contentFor(snap)
	if err != nil {
		return "", err
	}

	data := map[string]any{
		"productId":       productID,
		"title":           sanitizeText(snap.Title),
		"content":         content,
		"progress":        progressView(snap.Progress),
		"progressPercent": progressPercent(snap),
		"priceEnabled":    snap.PriceEnabled,
		"hasPrice":        snap.HasPrice,
		"price":           snap.Price,
		"showNav":         snap.Phase == calculator.PhaseStep,
		"canGoBack":       snap.Phase == calculator.PhaseStep && snap.StepIndex > 0,
		"nextLabel":       nextLabel(snap),
	}
	return r.templates.RenderTemplate("templates/widget", data)
}

// RenderField produces the group markup for a single field, used for
// partial re-renders after an edit.
func (r *Renderer) RenderField(field model.Field, ctx FieldContext) (string, error) {
	renderer, ok := r.registry.Renderer(field.Type)
	if !ok {
		return "", fmt.Errorf("render: no renderer registered for field type %q", field.Type)
	}

	var control bytes.Buffer
	if err := renderer(&control, field, ctx); err != nil {
		return "", fmt.Errorf("render: field %q: %w", field.Name, err)
	}
	return buildFieldGroup(field, control.String(), ctx.Error), nil
}

func (r *Renderer) contentFor(snap calculator.Snapshot) (string, error) {
	switch snap.Phase {
	case calculator.PhaseStep:
		return r.stepContent(snap)
	case calculator.PhaseSubmitting:
		return `<div class="calculator-loading"><div class="spinner"></div><p>Adding to cart...</p></div>`, nil
	case calculator.PhaseSucceeded:
		return successContent(snap), nil
	case calculator.PhaseFailed:
		return failureContent(snap), nil
	default:
		return "", fmt.Errorf("render: unknown phase %q", snap.Phase)
	}
}

func (r *Renderer) stepContent(snap calculator.Snapshot) (string, error) {
	var builder strings.Builder

	builder.WriteString(`<h3 class="step-title">`)
	builder.WriteString(sanitizeText(snap.Step.Title))
	builder.WriteString("</h3>\n")
	builder.WriteString(`<div class="calculator-fields">` + "\n")

	for _, field := range snap.Step.Fields {
		ref, hasUpload := snap.Uploads[field.Name]
		markup, err := r.RenderField(field, FieldContext{
			Value:     snap.Values[field.Name],
			Upload:    ref,
			HasUpload: hasUpload,
			Error:     snap.Errors[field.Name],
		})
		if err != nil {
			return "", err
		}
		builder.WriteString(markup)
	}

	builder.WriteString(`</div>`)
	return builder.String(), nil
}

func buildFieldGroup(field model.Field, control, errorMessage string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="field-group" data-field-name="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString(`">` + "\n")

	if label := sanitizeText(field.Label); label != "" {
		builder.WriteString(`    <label>`)
		builder.WriteString(label)
		if field.Required {
			builder.WriteString(`<span class="required">*</span>`)
		}
		builder.WriteString("</label>\n")
	}

	builder.WriteString("    ")
	builder.WriteString(control)
	builder.WriteByte('\n')

	builder.WriteString(`    <div class="error-message">`)
	builder.WriteString(html.EscapeString(errorMessage))
	builder.WriteString("</div>\n")

	builder.WriteString("</div>\n")
	return builder.String()
}

func successContent(snap calculator.Snapshot) string {
	var builder strings.Builder
	builder.WriteString(`<div class="calculator-success"><div class="success-icon">✓</div><h3>Added to Cart!</h3><p>`)
	builder.WriteString(html.EscapeString(snap.Result.Message))
	builder.WriteString(`</p>`)
	if snap.Result.CartURL != "" {
		builder.WriteString(`<a href="`)
		builder.WriteString(html.EscapeString(snap.Result.CartURL))
		builder.WriteString(`" class="view-cart-btn">View Cart</a>`)
	}
	builder.WriteString(`</div>`)
	return builder.String()
}

func failureContent(snap calculator.Snapshot) string {
	var builder strings.Builder
	builder.WriteString(`<div class="calculator-error"><p>Error: `)
	builder.WriteString(html.EscapeString(snap.FailureMessage))
	builder.WriteString(`</p><button class="btn-primary btn-retry">Try Again</button></div>`)
	return builder.String()
}

type progressEntryView struct {
	Title string
	State string
}

func progressView(entries []calculator.ProgressEntry) []progressEntryView {
	out := make([]progressEntryView, len(entries))
	for i, entry := range entries {
		out[i] = progressEntryView{
			Title: sanitizeText(entry.Title),
			State: string(entry.State),
		}
	}
	return out
}

func progressPercent(snap calculator.Snapshot) int {
	total := len(snap.Progress)
	if total <= 1 {
		return 100
	}
	return snap.StepIndex * 100 / (total - 1)
}

func nextLabel(snap calculator.Snapshot) string {
	if !snap.LastStep {
		return "Next"
	}
	if label := sanitizeText(snap.ButtonText); label != "" {
		return label
	}
	return "Add to Cart"
}
