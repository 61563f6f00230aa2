package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/telexlabs/go-prodcalc/pkg/gateway"
	"github.com/telexlabs/go-prodcalc/pkg/model"
)

// FieldContext carries the live state a field renderer needs alongside its
// definition: the current value, any uploaded-file reference, and the
// field's pending error message.
type FieldContext struct {
	Value     any
	Upload    gateway.FileRef
	HasUpload bool
	Error     string
}

// FieldRenderer writes the control markup for one field kind into buf. The
// surrounding group markup (label, error slot) is handled by the caller.
type FieldRenderer func(buf *bytes.Buffer, field model.Field, ctx FieldContext) error

// Registry maps field kinds to their renderers. Callers can override the
// defaults to swap in custom markup.
type Registry struct {
	mu        sync.RWMutex
	renderers map[model.FieldType]FieldRenderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[model.FieldType]FieldRenderer)}
}

// NewDefaultRegistry constructs a registry pre-populated with renderers for
// every supported field kind.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(model.FieldTypeText, inputRenderer)
	registry.MustRegister(model.FieldTypeNumber, inputRenderer)
	registry.MustRegister(model.FieldTypeTextarea, textareaRenderer)
	registry.MustRegister(model.FieldTypeSelect, selectRenderer)
	registry.MustRegister(model.FieldTypeRadio, radioRenderer)
	registry.MustRegister(model.FieldTypeCheckbox, checkboxRenderer)
	registry.MustRegister(model.FieldTypeFile, fileRenderer)
	return registry
}

// Register associates a renderer with a field kind, replacing any existing
// entry.
func (r *Registry) Register(fieldType model.FieldType, renderer FieldRenderer) error {
	if fieldType == "" {
		return fmt.Errorf("render: field type is required")
	}
	if renderer == nil {
		return fmt.Errorf("render: renderer for %q is nil", fieldType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[fieldType] = renderer
	return nil
}

// MustRegister mirrors Register but panics on error, simplifying default
// registry setup.
func (r *Registry) MustRegister(fieldType model.FieldType, renderer FieldRenderer) {
	if err := r.Register(fieldType, renderer); err != nil {
		panic(err)
	}
}

// Renderer fetches the renderer for a field kind.
func (r *Registry) Renderer(fieldType model.FieldType) (FieldRenderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[fieldType]
	return renderer, ok
}
