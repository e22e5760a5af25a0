// Package session owns the mutable state of one document-editing flow: the
// values map, the last validation result, and a bounded undo/redo history.
// A Session replaces the global store the editing UI would otherwise reach
// for — it is an explicit object passed to whoever needs it, owned
// exclusively by the flow that created it, and not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-docgen/pkg/model"
	"github.com/goliatone/go-docgen/pkg/render"
	"github.com/goliatone/go-docgen/pkg/schema"
)

// DefaultHistoryLimit bounds the undo stack.
const DefaultHistoryLimit = 50

// ErrInvalid is returned by Document when the current values fail validation.
var ErrInvalid = errors.New("session: values are not valid")

// Option customises a Session.
type Option func(*Session)

// WithHistoryLimit overrides the undo-stack bound. Values below 1 keep the
// default.
func WithHistoryLimit(limit int) Option {
	return func(s *Session) {
		if limit >= 1 {
			s.limit = limit
		}
	}
}

// Session is the editing state for one template. Undo/redo is modeled as a
// stack of values snapshots plus a cursor index; Set truncates any redo tail
// before pushing.
type Session struct {
	template model.Template
	schema   *schema.Schema

	values  model.Values
	result  schema.Result
	history []model.Values
	cursor  int
	limit   int
}

// New builds a session for the template, synthesizing its validation schema
// up front so a malformed template fails here rather than on submit.
func New(template model.Template, opts ...Option) (*Session, error) {
	compiled, err := schema.Build(template)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		template: template,
		schema:   compiled,
		values:   make(model.Values),
		result:   schema.Result{Valid: true},
		limit:    DefaultHistoryLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.history = []model.Values{s.values.Clone()}
	s.cursor = 0
	return s, nil
}

// Template returns the immutable template this session edits.
func (s *Session) Template() model.Template { return s.template }

// Set records a field value, clears that field's pending validation error,
// and pushes an undo snapshot. Fields the template does not declare are
// rejected.
func (s *Session) Set(fieldID string, value any) error {
	if _, ok := s.template.Field(fieldID); !ok {
		return fmt.Errorf("session: template %q has no field %q", s.template.ID, fieldID)
	}

	s.values[fieldID] = value
	s.result.ClearField(fieldID)
	s.push()
	return nil
}

// Clear removes a field value, clearing its error and pushing a snapshot.
func (s *Session) Clear(fieldID string) {
	if _, ok := s.values[fieldID]; !ok {
		return
	}
	delete(s.values, fieldID)
	s.result.ClearField(fieldID)
	s.push()
}

// Value returns the current value for a field.
func (s *Session) Value(fieldID string) (any, bool) {
	v, ok := s.values[fieldID]
	return v, ok
}

// Values returns a copy of the current values map.
func (s *Session) Values() model.Values { return s.values.Clone() }

// push appends a snapshot of the current values, dropping any redo tail and
// enforcing the history bound.
func (s *Session) push() {
	s.history = append(s.history[:s.cursor+1], s.values.Clone())
	s.cursor++
	if overflow := len(s.history) - (s.limit + 1); overflow > 0 {
		s.history = append([]model.Values(nil), s.history[overflow:]...)
		s.cursor -= overflow
	}
}

// CanUndo reports whether an earlier snapshot exists.
func (s *Session) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether a later snapshot exists.
func (s *Session) CanRedo() bool { return s.cursor < len(s.history)-1 }

// Undo steps back one snapshot. It reports whether a step was taken.
func (s *Session) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.cursor--
	s.values = s.history[s.cursor].Clone()
	return true
}

// Redo steps forward one snapshot. It reports whether a step was taken.
func (s *Session) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.cursor++
	s.values = s.history[s.cursor].Clone()
	return true
}

// Validate runs the synthesized schema against the current values (the
// on-submit pass) and retains the result so subsequent edits can clear their
// field's message.
func (s *Session) Validate() schema.Result {
	s.result = s.schema.Validate(s.values)
	return s.result
}

// Errors returns the pending per-field messages from the last validation.
func (s *Session) Errors() map[string]string {
	if len(s.result.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(s.result.Errors))
	for k, v := range s.result.Errors {
		out[k] = v
	}
	return out
}

// Render produces the document text from the current values.
func (s *Session) Render() string {
	return render.Render(s.template.Content, s.values)
}

// Document validates and assembles a persistable document. The returned
// document has no ID or timestamps; the persistence gateway's backend assigns
// those.
func (s *Session) Document(title string) (model.Document, error) {
	if result := s.Validate(); !result.Valid {
		return model.Document{}, ErrInvalid
	}
	if strings.TrimSpace(title) == "" {
		title = s.template.Title
	}
	return model.Document{
		TemplateID:   s.template.ID,
		TemplateName: s.template.Title,
		Title:        title,
		Values:       s.values.Clone(),
		Content:      s.Render(),
	}, nil
}
