// Package validate implements the presence checks that gate step navigation
// and the fast-path upload rules mirrored by the server.
package validate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/telexlabs/go-prodcalc/pkg/model"
)

// RequiredMessage is the inline error shown for a missing required field.
const RequiredMessage = "This field is required"

// MaxUploadBytes caps uploads at 10 MB. The server applies the same limit
// authoritatively.
const MaxUploadBytes = 10 * 1024 * 1024

// allowedExtensions lists the accepted upload types for file fields.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".ai":   {},
	".eps":  {},
}

// Result is the verdict for one step at the time of an advance attempt.
type Result struct {
	Valid  bool
	Errors map[string]string
}

// Step re-runs presence validation for every field on the step being left.
// Only required-ness is enforced; numeric bounds and file constraints are
// advisory hints validated elsewhere.
func Step(step model.Step, values map[string]any) Result {
	errors := make(map[string]string)
	for _, field := range step.Fields {
		if !field.Required {
			continue
		}
		if Empty(values[field.Name]) {
			errors[field.Name] = RequiredMessage
		}
	}
	if len(errors) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, Errors: errors}
}

// Empty reports whether a form value counts as absent: nil, an empty or
// blank string, or an empty string slice (a checkbox with nothing checked).
func Empty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

// Upload applies the fast-path client-side rules to a candidate file before
// any network call: extension whitelist and size cap. A zero or negative
// size is accepted since some sources cannot report one.
func Upload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("invalid file type, allowed: PDF, PNG, JPG, AI, EPS")
	}
	if size > MaxUploadBytes {
		return fmt.Errorf("file size exceeds 10MB limit")
	}
	return nil
}

// AllowedExtensions returns the accept-attribute value for file inputs.
func AllowedExtensions() string {
	return ".pdf,.png,.jpg,.jpeg,.ai,.eps"
}
