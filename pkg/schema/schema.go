// Package schema synthesizes a structural validation schema from a
// template's field list. Validation is performed once on submit; per-field
// error clearing while the user edits is a presentation concern layered on
// top of the Result type.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-docgen/pkg/model"
)

// rule holds the compiled checks for one field.
type rule struct {
	field    model.Field
	required bool
	options  map[string]struct{}
}

// Schema validates a Values map against the template it was built from.
// Schemas are immutable and safe to share; Validate has no side effects and
// is idempotent for a fixed input.
type Schema struct {
	rules []rule
}

// Result carries the outcome of one validation pass. Errors is keyed by field
// ID so a form layer can attach messages to their inputs. Validation never
// panics; failures are data.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ClearField drops the pending error for a field, implementing the
// "error clears on edit" behavior: when a field's value changes, its prior
// message is removed before the next full validation pass.
func (r *Result) ClearField(id string) {
	if r == nil || len(r.Errors) == 0 {
		return
	}
	delete(r.Errors, id)
	r.Valid = len(r.Errors) == 0
}

// Build synthesizes a Schema from the template's fields. The template must
// pass its own structural validation first; Build reports the underlying
// error otherwise.
func Build(template model.Template) (*Schema, error) {
	if err := template.Validate(); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	s := &Schema{rules: make([]rule, 0, len(template.Fields))}
	for _, field := range template.Fields {
		r := rule{field: field, required: field.Required}
		if field.HasOptions() {
			r.options = make(map[string]struct{}, len(field.Options))
			for _, opt := range field.Options {
				r.options[opt.Value] = struct{}{}
			}
		}
		s.rules = append(s.rules, r)
	}
	return s, nil
}

// Validate checks values against every field rule. All fields validate
// independently; one failure never blocks the rest.
//
// Required fields are satisfied by any non-empty value regardless of type.
// Number and date parseability is only enforced on values that are present
// and non-empty. This matches the behavior documents were historically
// validated under; see DESIGN.md for the compatibility note.
func (s *Schema) Validate(values model.Values) Result {
	result := Result{Valid: true}

	for _, r := range s.rules {
		raw, present := values[r.field.ID]
		text := strings.TrimSpace(stringValue(raw))
		empty := !present || raw == nil || text == ""

		if empty {
			if r.required {
				result.fail(r.field.ID, fmt.Sprintf("%s is required", labelOf(r.field)))
			}
			continue
		}

		switch r.field.Type {
		case model.FieldTypeNumber:
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				result.fail(r.field.ID, fmt.Sprintf("%s must be a number", labelOf(r.field)))
			}
		case model.FieldTypeDate:
			if !parseableDate(text) {
				result.fail(r.field.ID, fmt.Sprintf("%s must be a valid date", labelOf(r.field)))
			}
		case model.FieldTypeSelect, model.FieldTypeRadio:
			if _, ok := r.options[text]; !ok {
				result.fail(r.field.ID, fmt.Sprintf("%s must be one of the allowed options", labelOf(r.field)))
			}
		}
	}
	return result
}

func (r *Result) fail(fieldID, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[fieldID] = message
	r.Valid = false
}

func labelOf(field model.Field) string {
	if strings.TrimSpace(field.Label) != "" {
		return field.Label
	}
	return field.ID
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02.01.2006",
}

func parseableDate(text string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, text); err == nil {
			return true
		}
	}
	return false
}

// stringValue renders the supported field value kinds as strings for the
// non-empty and membership checks. Booleans always stringify non-empty, so a
// checked checkbox satisfies a required rule and an unchecked one does too;
// callers that need "must be checked" semantics model it as a select.
func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(value)
	}
}
