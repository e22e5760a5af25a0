package model

import "time"

// FieldType is the enum of form-friendly input kinds a template can declare.
// The type drives both the rendered control and the validation rule shape.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
)

// Option is a single selectable entry for select/radio fields. Order is
// significant: it defines the order choices are presented in.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field models one input slot in a template. ID doubles as the form key and
// the placeholder name inside the template content, so it must be a legal
// placeholder identifier (see Template.Validate).
type Field struct {
	ID          string    `json:"id" yaml:"id"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required" yaml:"required"`
	Options     []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// Template is an immutable document blueprint: metadata, the ordered field
// list (order defines form layout), and a content body carrying zero or more
// {{expression}} placeholder tokens. Templates are constructed once and never
// mutated; rendering produces a derived string.
type Template struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
	Content     string  `json:"content" yaml:"content"`
}

// Values maps field IDs to user-entered values (string, number, boolean, or a
// selected option value). A Values map belongs to a single editing session.
type Values map[string]any

// Document is a persisted artifact: a Template filled with a specific Values
// map plus the rendered content. The persistence gateway is the sole
// authority for create/read/update/delete; nothing in this module keeps a
// local source of truth beyond the gateway's time-boxed cache.
type Document struct {
	ID           string    `json:"id"`
	TemplateID   string    `json:"templateId"`
	TemplateName string    `json:"templateName,omitempty"`
	Title        string    `json:"title"`
	Values       Values    `json:"values"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Field returns the field with the given ID, or false when the template does
// not declare it.
func (t Template) Field(id string) (Field, bool) {
	for _, field := range t.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// HasOptions reports whether the field type carries an options list.
func (f Field) HasOptions() bool {
	return f.Type == FieldTypeSelect || f.Type == FieldTypeRadio
}

// OptionValues returns the ordered set of legal option values.
func (f Field) OptionValues() []string {
	if len(f.Options) == 0 {
		return nil
	}
	out := make([]string, 0, len(f.Options))
	for _, opt := range f.Options {
		out = append(out, opt.Value)
	}
	return out
}

// Clone returns a deep copy of the Values map. Nested maps/slices are not
// expected in field values; the copy is shallow per entry.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}
