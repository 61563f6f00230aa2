package pongo

import (
	"bytes"
	"testing"
	"testing/fstest"
)

func TestRenderTemplateFromFS(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"greeting.tmpl": &fstest.MapFile{Data: []byte("Hello {{ name }}!")},
	}

	engine, err := New(WithFS(files))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	out, err := engine.RenderTemplate("greeting", map[string]any{"name": "World"})
	if err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if out != "Hello World!" {
		t.Fatalf("out = %q", out)
	}

	// Second render hits the template cache.
	out, err = engine.RenderTemplate("greeting.tmpl", map[string]any{"name": "Again"})
	if err != nil {
		t.Fatalf("cached RenderTemplate returned error: %v", err)
	}
	if out != "Hello Again!" {
		t.Fatalf("out = %q", out)
	}
}

func TestRenderStringWritesToSinks(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(fstest.MapFS{}), WithGlobals(map[string]any{"site": "prodcalc"}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var sink bytes.Buffer
	out, err := engine.RenderString("{{ site }}: {{ value }}", map[string]any{"value": "42"}, &sink)
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if out != "prodcalc: 42" {
		t.Fatalf("out = %q", out)
	}
	if sink.String() != out {
		t.Fatalf("sink = %q, want %q", sink.String(), out)
	}
}

func TestNewRequiresSource(t *testing.T) {
	t.Parallel()

	if _, err := New(); err == nil {
		t.Fatal("expected error without a template source")
	}
}
