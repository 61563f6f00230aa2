package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveStoresFileAndReturnsReference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	service, err := New(dir, "https://shop.example/")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ref, err := service.Save("design.pdf", 9, strings.NewReader("%PDF-1.4\n"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if ref.Name != "design.pdf" {
		t.Fatalf("name = %q, want design.pdf", ref.Name)
	}
	if !strings.HasPrefix(ref.URL, "https://shop.example/uploads/") {
		t.Fatalf("url = %q", ref.URL)
	}
	if !strings.HasSuffix(ref.URL, "-design.pdf") {
		t.Fatalf("stored name missing sanitized base: %q", ref.URL)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "%PDF-1.4\n" {
		t.Fatalf("stored content = %q", data)
	}
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	t.Parallel()

	service, err := New(t.TempDir(), "https://shop.example")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := service.Save("malware.exe", 4, strings.NewReader("data")); err == nil {
		t.Fatal("expected extension rejection")
	}
}

func TestSaveUniqueNamesForRepeatedUploads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	service, err := New(dir, "https://shop.example")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	first, err := service.Save("design.pdf", 1, strings.NewReader("a"))
	if err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}
	second, err := service.Save("design.pdf", 1, strings.NewReader("b"))
	if err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	if first.URL == second.URL {
		t.Fatalf("repeated uploads collided on %q", first.URL)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
}

func TestSaveSanitizesHostileFileNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	service, err := New(dir, "https://shop.example")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ref, err := service.Save("../../etc/pass wd.pdf", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if strings.Contains(ref.URL, "..") || strings.Contains(ref.URL, " ") {
		t.Fatalf("hostile name survived: %q", ref.URL)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("file escaped the upload directory, entries = %d", len(entries))
	}
}
