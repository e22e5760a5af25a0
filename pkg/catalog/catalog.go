// Package catalog holds the template catalog: the immutable set of document
// blueprints a user can fill in. Catalogs come from three places — the
// embedded built-ins, template files on an fs.FS, or the backend API — and
// are constructed once, never mutated.
package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docgen/pkg/model"
)

// Catalog is an ordered, validated collection of templates keyed by ID.
type Catalog struct {
	templates map[string]model.Template
	order     []string
}

// New builds a catalog from the given templates. Every template must pass
// structural validation; duplicate IDs are rejected.
func New(templates ...model.Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]model.Template, len(templates))}
	for _, tpl := range templates {
		if err := c.add(tpl); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(tpl model.Template) error {
	if err := tpl.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if _, exists := c.templates[tpl.ID]; exists {
		return fmt.Errorf("catalog: duplicate template id %q", tpl.ID)
	}
	c.templates[tpl.ID] = tpl
	c.order = append(c.order, tpl.ID)
	return nil
}

// Get returns the template with the given ID.
func (c *Catalog) Get(id string) (model.Template, bool) {
	tpl, ok := c.templates[id]
	return tpl, ok
}

// List returns templates in catalog order.
func (c *Catalog) List() []model.Template {
	out := make([]model.Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id])
	}
	return out
}

// IDs returns the template IDs in catalog order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Len reports the number of templates.
func (c *Catalog) Len() int { return len(c.order) }

// fileDoc is the on-disk shape: either a single template document or a
// `templates:` list.
type fileDoc struct {
	Templates []model.Template `json:"templates" yaml:"templates"`
}

// LoadFS walks fsys and parses every JSON/YAML template file into a catalog.
// Files are visited in lexical order so the catalog order is stable. A nil
// fsys yields an empty catalog.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]model.Template)}
	if fsys == nil {
		return c, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTemplateFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: walk templates: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", path, err)
		}
		templates, err := parseFile(data, path)
		if err != nil {
			return nil, err
		}
		for _, tpl := range templates {
			if err := c.add(tpl); err != nil {
				return nil, fmt.Errorf("%w (file %s)", err, path)
			}
		}
	}
	return c, nil
}

func parseFile(data []byte, path string) ([]model.Template, error) {
	var doc fileDoc
	if err := unmarshalByExt(data, path, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(doc.Templates) > 0 {
		return doc.Templates, nil
	}

	var single model.Template
	if err := unmarshalByExt(data, path, &single); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if strings.TrimSpace(single.ID) == "" {
		return nil, fmt.Errorf("catalog: file %s defines no templates", path)
	}
	return []model.Template{single}, nil
}

func unmarshalByExt(data []byte, path string, out any) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Unmarshal(data, out)
	}
	return yaml.Unmarshal(data, out)
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
