// Package template defines the seam between the widget renderer and the
// template engine backing it.
package template

import "io"

// Renderer is the engine contract the widget renderer relies on. Named
// templates resolve against the engine's configured source; RenderString
// takes inline template content.
type Renderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
}
