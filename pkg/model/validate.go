package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errTemplateIDMissing = errors.New("model: template id is required")
	errContentMissing    = errors.New("model: template content is required")
)

// Validate checks the structural invariants a template must satisfy before it
// can feed the schema synthesizer or the renderer: non-empty id and content,
// every field id a legal placeholder identifier, no duplicate field ids, and
// options present exactly on the field types that use them.
func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errTemplateIDMissing
	}
	if strings.TrimSpace(t.Content) == "" {
		return errContentMissing
	}

	seen := make(map[string]struct{}, len(t.Fields))
	for _, field := range t.Fields {
		if err := field.validate(); err != nil {
			return fmt.Errorf("model: template %q: %w", t.ID, err)
		}
		if _, dup := seen[field.ID]; dup {
			return fmt.Errorf("model: template %q: duplicate field id %q", t.ID, field.ID)
		}
		seen[field.ID] = struct{}{}
	}
	return nil
}

func (f Field) validate() error {
	if !IsIdentifier(f.ID) {
		return fmt.Errorf("field id %q is not a legal placeholder identifier", f.ID)
	}
	switch f.Type {
	case FieldTypeText, FieldTypeTextarea, FieldTypeDate, FieldTypeNumber, FieldTypeCheckbox:
		if len(f.Options) > 0 {
			return fmt.Errorf("field %q: options are only valid on select/radio fields", f.ID)
		}
	case FieldTypeSelect, FieldTypeRadio:
		if len(f.Options) == 0 {
			return fmt.Errorf("field %q: %s fields require options", f.ID, f.Type)
		}
		values := make(map[string]struct{}, len(f.Options))
		for _, opt := range f.Options {
			if strings.TrimSpace(opt.Value) == "" {
				return fmt.Errorf("field %q: option value is required", f.ID)
			}
			if _, dup := values[opt.Value]; dup {
				return fmt.Errorf("field %q: duplicate option value %q", f.ID, opt.Value)
			}
			values[opt.Value] = struct{}{}
		}
	default:
		return fmt.Errorf("field %q: unknown type %q", f.ID, f.Type)
	}
	return nil
}

// IsIdentifier reports whether s is usable as a bare placeholder name:
// a letter or underscore followed by letters, digits, or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
