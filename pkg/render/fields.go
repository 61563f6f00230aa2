package render

import (
	"bytes"
	"html"
	"slices"
	"strconv"

	"github.com/telexlabs/go-prodcalc/pkg/model"
	"github.com/telexlabs/go-prodcalc/pkg/validate"
)

func inputRenderer(buf *bytes.Buffer, field model.Field, ctx FieldContext) error {
	buf.WriteString(`<input type="`)
	buf.WriteString(string(field.Type))
	buf.WriteString(`" name="`)
	buf.WriteString(html.EscapeString(field.Name))
	buf.WriteString(`" value="`)
	buf.WriteString(html.EscapeString(valueString(ctx.Value)))
	buf.WriteString(`"`)
	if field.Type == model.FieldTypeNumber {
		writeNumberAttr(buf, "min", field.Min)
		writeNumberAttr(buf, "max", field.Max)
		writeNumberAttr(buf, "step", field.Step)
	}
	buf.WriteString(` />`)
	return nil
}

func textareaRenderer(buf *bytes.Buffer, field model.Field, ctx FieldContext) error {
	buf.WriteString(`<textarea name="`)
	buf.WriteString(html.EscapeString(field.Name))
	buf.WriteString(`">`)
	buf.WriteString(html.EscapeString(valueString(ctx.Value)))
	buf.WriteString(`</textarea>`)
	return nil
}

func selectRenderer(buf *bytes.Buffer, field model.Field, ctx FieldContext) error {
	current := valueString(ctx.Value)

	buf.WriteString(`<select name="`)
	buf.WriteString(html.EscapeString(field.Name))
	buf.WriteString(`">`)
	buf.WriteString(`<option value="">Select an option</option>`)
	for _, option := range field.Options {
		buf.WriteString(`<option value="`)
		buf.WriteString(html.EscapeString(option.Value))
		buf.WriteString(`"`)
		if current != "" && current == option.Value {
			buf.WriteString(` selected`)
		}
		buf.WriteString(`>`)
		buf.WriteString(sanitizeText(option.Label))
		buf.WriteString(`</option>`)
	}
	buf.WriteString(`</select>`)
	return nil
}

func radioRenderer(buf *bytes.Buffer, field model.Field, ctx FieldContext) error {
	current := valueString(ctx.Value)

	buf.WriteString(`<div class="radio-group">`)
	for _, option := range field.Options {
		buf.WriteString(`<label><input type="radio" name="`)
		buf.WriteString(html.EscapeString(field.Name))
		buf.WriteString(`" value="`)
		buf.WriteString(html.EscapeString(option.Value))
		buf.WriteString(`"`)
		if current != "" && current == option.Value {
			buf.WriteString(` checked`)
		}
		buf.WriteString(` /> `)
		buf.WriteString(sanitizeText(option.Label))
		buf.WriteString(`</label>`)
	}
	buf.WriteString(`</div>`)
	return nil
}

func checkboxRenderer(buf *bytes.Buffer, field model.Field, ctx FieldContext) error {
	selected, _ := ctx.Value.([]string)

	buf.WriteString(`<div class="checkbox-group">`)
	for _, option := range field.Options {
		buf.WriteString(`<label><input type="checkbox" name="`)
		buf.WriteString(html.EscapeString(field.Name))
		buf.WriteString(`[]" value="`)
		buf.WriteString(html.EscapeString(option.Value))
		buf.WriteString(`"`)
		if slices.Contains(selected, option.Value) {
			buf.WriteString(` checked`)
		}
		buf.WriteString(` /> `)
		buf.WriteString(sanitizeText(option.Label))
		buf.WriteString(`</label>`)
	}
	buf.WriteString(`</div>`)
	return nil
}

func fileRenderer(buf *bytes.Buffer, field model.Field, ctx FieldContext) error {
	fileName := "No file chosen"
	classes := "file-upload"
	if ctx.HasUpload {
		fileName = ctx.Upload.Name
		classes += " has-file"
	}

	buf.WriteString(`<div class="`)
	buf.WriteString(classes)
	buf.WriteString(`" data-field="`)
	buf.WriteString(html.EscapeString(field.Name))
	buf.WriteString(`">`)
	buf.WriteString(`<div class="upload-text">Click to upload or drag and drop</div>`)
	buf.WriteString(`<div class="file-info">Accepted: PDF, PNG, JPG, AI, EPS (Max 10MB)</div>`)
	buf.WriteString(`<div class="file-name">`)
	buf.WriteString(html.EscapeString(fileName))
	buf.WriteString(`</div>`)
	buf.WriteString(`<input type="file" name="`)
	buf.WriteString(html.EscapeString(field.Name))
	buf.WriteString(`" accept="`)
	buf.WriteString(validate.AllowedExtensions())
	buf.WriteString(`" />`)
	buf.WriteString(`</div>`)
	return nil
}

// valueString renders scalar values for markup; slices and file references
// are handled by their dedicated renderers.
func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func writeNumberAttr(buf *bytes.Buffer, name string, value *float64) {
	if value == nil {
		return
	}
	buf.WriteString(` `)
	buf.WriteString(name)
	buf.WriteString(`="`)
	buf.WriteString(strconv.FormatFloat(*value, 'f', -1, 64))
	buf.WriteString(`"`)
}
