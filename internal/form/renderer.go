// internal/form/renderer.go
//
// Forms subsystem: HTML renderer.
//
// Context
//   Given a Def (from definition.go) this file converts the definition into
//   safe, accessible HTML markup for a statically rendered page.  Output is
//   a pure function of the Def: no tokens, no timestamps, no session state,
//   so identical definitions always render byte-identical markup.
//
// Workflow
//   •  Render picks the flat field list, or the first step of a multi-step
//      form, and writes each field via writeField.
//   •  Required, minlength, maxlength, pattern, and placeholder attributes are
//      attached where relevant.  Select/radio options are rendered from the
//      YAML Options slice.
//
// Style
//   Output HTML is plain, no framework classes.  Each input gets
//   id="{prefix}-{name}" and is wrapped in <div class="sg-form-field">.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Options bundles optional parameters influencing HTML output.
type Options struct {
	// IDPrefix namespaces input ids when one page carries several forms.
	// Empty means "fld".
	IDPrefix string
}

// Render returns the HTML markup for fd.  The Def is validated first so
// inline definitions get the same checks as files.
func Render(fd *Def, opts Options) (string, error) {
	if fd == nil {
		return "", fmt.Errorf("form: nil definition")
	}
	if err := Validate(fd, "form "+fd.ID); err != nil {
		return "", err
	}
	prefix := opts.IDPrefix
	if prefix == "" {
		prefix = "fld"
	}

	fields := fd.Fields
	stepID := ""
	if len(fd.Steps) > 0 {
		fields = fd.Steps[0].Fields
		stepID = fd.Steps[0].ID
	}

	method := strings.ToLower(fd.Method)
	if method == "" {
		method = "post"
	}

	var buf bytes.Buffer
	buf.WriteString(`<form class="sg-form" data-form-id="` + html.EscapeString(fd.ID) + `" method="` + method + `"`)
	if fd.Action != "" {
		buf.WriteString(` action="` + html.EscapeString(fd.Action) + `"`)
	}
	buf.WriteString(">\n")
	if fd.Title != "" {
		buf.WriteString(`<h3 class="sg-form-title">` + html.EscapeString(fd.Title) + "</h3>\n")
	}

	for i := range fields {
		if err := writeField(&buf, &fields[i], prefix); err != nil {
			return "", err
		}
	}
	if stepID != "" {
		buf.WriteString(`<input type="hidden" name="current_step" value="` + html.EscapeString(stepID) + `">` + "\n")
	}

	label := fd.Submit
	if label == "" {
		label = "Submit"
	}
	buf.WriteString(`<button type="submit">` + html.EscapeString(label) + "</button>\n")
	buf.WriteString("</form>")
	return buf.String(), nil
}

// writeField emits HTML for an individual field into buf, applying
// validation attributes.
func writeField(buf *bytes.Buffer, f *Field, prefix string) error {
	id := prefix + "-" + html.EscapeString(f.Name)
	idAttr := `id="` + id + `"`
	nameAttr := `name="` + html.EscapeString(f.Name) + `"`

	if f.Type == "hidden" {
		buf.WriteString(`<input ` + nameAttr + ` type="hidden">` + "\n")
		return nil
	}

	buf.WriteString(`<div class="sg-form-field">` + "\n")
	if f.Type != "radio" {
		buf.WriteString(`<label for="` + id + `">` + html.EscapeString(f.Label) + `</label>` + "\n")
	} else {
		buf.WriteString(`<span class="sg-form-label">` + html.EscapeString(f.Label) + `</span>` + "\n")
	}

	switch f.Type {
	case "text", "email", "password", "number", "date", "tel", "url":
		buf.WriteString(`<input ` + idAttr + ` ` + nameAttr + ` type="` + f.Type + `"`)
		writePlaceholder(buf, f)
		writeConstraints(buf, f)
		if f.Pattern != "" {
			buf.WriteString(` pattern="` + html.EscapeString(f.Pattern) + `"`)
		}
		buf.WriteString(`>` + "\n")

	case "textarea":
		buf.WriteString(`<textarea ` + idAttr + ` ` + nameAttr)
		writePlaceholder(buf, f)
		writeConstraints(buf, f)
		buf.WriteString(`></textarea>` + "\n")

	case "select":
		buf.WriteString(`<select ` + idAttr + ` ` + nameAttr)
		if f.Required {
			buf.WriteString(` required`)
		}
		buf.WriteString(`>` + "\n")
		for _, opt := range f.Options {
			o := html.EscapeString(opt)
			buf.WriteString(`<option value="` + o + `">` + o + `</option>` + "\n")
		}
		buf.WriteString(`</select>` + "\n")

	case "checkbox":
		buf.WriteString(`<input ` + idAttr + ` ` + nameAttr + ` type="checkbox"`)
		if f.Required {
			buf.WriteString(` required`)
		}
		buf.WriteString(`>` + "\n")

	case "radio":
		for i, opt := range f.Options {
			radioID := id + "-" + strconv.Itoa(i)
			buf.WriteString(`<div class="sg-radio-option">` + "\n")
			buf.WriteString(`<input id="` + radioID + `" ` + nameAttr + ` type="radio" value="` + html.EscapeString(opt) + `"`)
			if f.Required {
				buf.WriteString(` required`)
			}
			buf.WriteString(`>` + "\n")
			buf.WriteString(`<label for="` + radioID + `">` + html.EscapeString(opt) + `</label>` + "\n")
			buf.WriteString(`</div>` + "\n")
		}

	default:
		return fmt.Errorf("writeField: unsupported field type %q in form field %s", f.Type, f.Name)
	}

	buf.WriteString(`</div>` + "\n")
	return nil
}

func writePlaceholder(buf *bytes.Buffer, f *Field) {
	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
}

func writeConstraints(buf *bytes.Buffer, f *Field) {
	if f.Required {
		buf.WriteString(` required`)
	}
	if f.MinLength > 0 {
		buf.WriteString(` minlength="` + strconv.Itoa(f.MinLength) + `"`)
	}
	if f.MaxLength > 0 {
		buf.WriteString(` maxlength="` + strconv.Itoa(f.MaxLength) + `"`)
	}
}
