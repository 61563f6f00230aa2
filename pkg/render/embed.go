package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded chrome template bundle for consumers that
// want the built-in widget markup out of the box.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
