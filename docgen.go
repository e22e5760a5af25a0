// Package docgen generates legal documents from declarative templates:
// placeholder substitution with safe conditional expressions, field-driven
// validation schema synthesis, preview/export, and a thin persistence
// gateway. The root package re-exports the common entry points; the full
// surface lives under pkg/.
package docgen

import (
	"github.com/goliatone/go-docgen/pkg/catalog"
	"github.com/goliatone/go-docgen/pkg/model"
	"github.com/goliatone/go-docgen/pkg/preview"
	"github.com/goliatone/go-docgen/pkg/render"
	"github.com/goliatone/go-docgen/pkg/schema"
	"github.com/goliatone/go-docgen/pkg/session"
)

// Field is one typed input slot on a template.
type Field = model.Field

// Template is an immutable document blueprint.
type Template = model.Template

// Values maps field IDs to user-entered values for one editing session.
type Values = model.Values

// Document is a persisted, rendered instance of a template.
type Document = model.Document

// Result is the outcome of one validation pass.
type Result = schema.Result

// Render substitutes {{ ... }} placeholder tokens in content from values.
func Render(content string, values Values) string {
	return render.Render(content, values)
}

// BuildSchema synthesizes the validation schema for a template's fields.
func BuildSchema(template Template) (*schema.Schema, error) {
	return schema.Build(template)
}

// Preview renders a template with values for on-screen display.
func Preview(template Template, values Values) string {
	return preview.Text(template, values)
}

// NewSession starts an editing session for a template.
func NewSession(template Template, opts ...session.Option) (*session.Session, error) {
	return session.New(template, opts...)
}

// BuiltinCatalog returns the embedded template catalog.
func BuiltinCatalog() (*catalog.Catalog, error) {
	return catalog.Builtin()
}
