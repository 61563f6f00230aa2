package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	content := `# comment line
PRODCALC_TEST_PLAIN=hello
export PRODCALC_TEST_EXPORTED=world
PRODCALC_TEST_QUOTED="quoted value"
PRODCALC_TEST_SINGLE='single'
PRODCALC_TEST_EXISTING=overwritten

not-a-pair
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	t.Setenv("PRODCALC_TEST_EXISTING", "original")
	for _, key := range []string{
		"PRODCALC_TEST_PLAIN",
		"PRODCALC_TEST_EXPORTED",
		"PRODCALC_TEST_QUOTED",
		"PRODCALC_TEST_SINGLE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv returned error: %v", err)
	}

	checks := map[string]string{
		"PRODCALC_TEST_PLAIN":    "hello",
		"PRODCALC_TEST_EXPORTED": "world",
		"PRODCALC_TEST_QUOTED":   "quoted value",
		"PRODCALC_TEST_SINGLE":   "single",
		"PRODCALC_TEST_EXISTING": "original",
	}
	for key, want := range checks {
		if got := os.Getenv(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file must not error, got: %v", err)
	}
}
