package validate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/telexlabs/go-prodcalc/pkg/model"
)

func TestStepRequiredFields(t *testing.T) {
	t.Parallel()

	step := model.Step{
		Title: "Dimensions",
		Fields: []model.Field{
			{Name: "width", Type: model.FieldTypeNumber, Required: true},
			{Name: "note", Type: model.FieldTypeTextarea},
			{Name: "finish", Type: model.FieldTypeCheckbox, Required: true},
		},
	}

	result := Step(step, map[string]any{
		"width":  "",
		"finish": []string{},
	})
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	want := map[string]string{
		"width":  RequiredMessage,
		"finish": RequiredMessage,
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	result = Step(step, map[string]any{
		"width":  "12",
		"finish": []string{"gloss"},
	})
	if !result.Valid {
		t.Fatalf("expected valid result, errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
}

func TestStepWithNoFields(t *testing.T) {
	t.Parallel()

	result := Step(model.Step{Title: "Intro"}, nil)
	if !result.Valid {
		t.Fatalf("empty step should validate")
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: true},
		{name: "blank string", value: "   ", want: true},
		{name: "string", value: "x", want: false},
		{name: "empty slice", value: []string{}, want: true},
		{name: "slice", value: []string{"a"}, want: false},
		{name: "number", value: 0, want: false},
	}
	for _, tc := range cases {
		if got := Empty(tc.value); got != tc.want {
			t.Fatalf("Empty(%v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestUpload(t *testing.T) {
	t.Parallel()

	if err := Upload("artwork.PDF", 1024); err != nil {
		t.Fatalf("expected pdf to pass: %v", err)
	}
	if err := Upload("malware.exe", 1024); err == nil {
		t.Fatalf("expected extension rejection")
	}
	if err := Upload("big.png", MaxUploadBytes+1); err == nil {
		t.Fatalf("expected size rejection")
	}
	if err := Upload("unknown.jpg", 0); err != nil {
		t.Fatalf("unknown size should pass: %v", err)
	}
}
