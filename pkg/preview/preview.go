// Package preview produces displayable previews of a rendered document:
// plain text for inline display and a self-contained HTML page for the
// preview pane. The HTML path sanitizes user-entered values so a field value
// can never inject markup into the page.
package preview

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-docgen/pkg/model"
	"github.com/goliatone/go-docgen/pkg/render"
)

//go:embed layout.html.tpl
var layoutSource string

var (
	layoutOnce sync.Once
	layoutTpl  *pongo2.Template
	layoutErr  error
)

// Text renders the template content with values and returns the document
// text, suitable for on-screen display. No side effects.
func Text(template model.Template, values model.Values) string {
	return render.Render(template.Content, values)
}

// HTML wraps the rendered document text in the embedded preview layout.
// Every line of output is sanitized before it reaches the page.
func HTML(template model.Template, values model.Values) ([]byte, error) {
	tpl, err := layout()
	if err != nil {
		return nil, err
	}

	text := Text(template, values)
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, sanitizeLine(line))
	}

	out, err := tpl.Execute(pongo2.Context{
		"title": sanitizeLine(template.Title),
		"lines": lines,
	})
	if err != nil {
		return nil, fmt.Errorf("preview: execute layout: %w", err)
	}
	return []byte(out), nil
}

func layout() (*pongo2.Template, error) {
	layoutOnce.Do(func() {
		tpl, err := pongo2.FromString(layoutSource)
		if err != nil {
			layoutErr = fmt.Errorf("preview: parse layout: %w", err)
			return
		}
		layoutTpl = tpl
	})
	return layoutTpl, layoutErr
}
