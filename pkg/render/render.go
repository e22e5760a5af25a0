// Package render turns template content into document text by substituting
// {{ ... }} placeholder tokens from a values map.
package render

import (
	"strings"

	"github.com/goliatone/go-docgen/pkg/model"
	"github.com/goliatone/go-docgen/pkg/render/expr"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Render substitutes every placeholder token in content using values and
// returns the derived document text. It is a pure function: same inputs, same
// output, no I/O.
//
// Token handling:
//   - a bare identifier substitutes the bound value; unbound identifiers
//     leave the original {{token}} text in place so authors can see which
//     fields went unresolved
//   - anything else is treated as a conditional expression and evaluated in a
//     scope holding only the values map; an evaluation error or a
//     falsy/absent result substitutes the empty string
//   - scanning is single-pass and non-recursive: substituted values are never
//     re-scanned, so {{...}}-shaped text inside a value is emitted literally
//
// A bad field value can blank its own token but can never fail the render of
// the rest of the document.
func Render(content string, values model.Values) string {
	var out strings.Builder
	out.Grow(len(content))

	rest := content
	for {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			out.WriteString(rest)
			return out.String()
		}
		end := strings.Index(rest[start+len(openDelim):], closeDelim)
		if end < 0 {
			// Unterminated token: emit the tail as-is.
			out.WriteString(rest)
			return out.String()
		}

		out.WriteString(rest[:start])
		inner := rest[start+len(openDelim) : start+len(openDelim)+end]
		token := rest[start : start+len(openDelim)+end+len(closeDelim)]
		out.WriteString(resolve(token, inner, values))
		rest = rest[start+len(openDelim)+end+len(closeDelim):]
	}
}

// resolve produces the replacement text for one token. token is the original
// {{...}} text including delimiters; inner is the text between them.
func resolve(token, inner string, values model.Values) string {
	expression := strings.TrimSpace(inner)
	if expression == "" {
		return token
	}

	if model.IsIdentifier(expression) {
		value, ok := values[expression]
		if !ok {
			return token
		}
		return expr.Stringify(value)
	}

	result, err := expr.Eval(expression, values)
	if err != nil {
		return ""
	}
	if !expr.Truthy(result) {
		return ""
	}
	return expr.Stringify(result)
}

// Tokens lists the distinct trimmed expressions appearing in content, in
// first-seen order. Useful for authoring checks against a template's fields.
func Tokens(content string) []string {
	var out []string
	seen := make(map[string]struct{})

	rest := content
	for {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			return out
		}
		end := strings.Index(rest[start+len(openDelim):], closeDelim)
		if end < 0 {
			return out
		}
		inner := strings.TrimSpace(rest[start+len(openDelim) : start+len(openDelim)+end])
		if inner != "" {
			if _, dup := seen[inner]; !dup {
				seen[inner] = struct{}{}
				out = append(out, inner)
			}
		}
		rest = rest[start+len(openDelim)+end+len(closeDelim):]
	}
}
