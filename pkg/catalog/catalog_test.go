package catalog

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docgen/pkg/model"
)

const letterYAML = `
id: letter
title: Letter
fields:
  - id: recipient
    label: Recipient
    type: text
    required: true
content: "Dear {{recipient}},"
`

const noticeJSON = `{
  "id": "notice",
  "title": "Notice",
  "fields": [
    {"id": "subject", "label": "Subject", "type": "text", "required": true}
  ],
  "content": "Re: {{subject}}"
}`

func TestLoadFSParsesYAMLAndJSON(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a/letter.yaml": {Data: []byte(letterYAML)},
		"b/notice.json": {Data: []byte(noticeJSON)},
		"readme.md":     {Data: []byte("ignored")},
	}

	cat, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS returned error: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cat.Len())
	}
	if diff := cmp.Diff([]string{"letter", "notice"}, cat.IDs()); diff != "" {
		t.Fatalf("IDs mismatch (-want +got):\n%s", diff)
	}

	tpl, ok := cat.Get("letter")
	if !ok {
		t.Fatal("letter template missing")
	}
	if tpl.Fields[0].ID != "recipient" {
		t.Fatalf("unexpected field: %+v", tpl.Fields[0])
	}
}

func TestLoadFSTemplateList(t *testing.T) {
	t.Parallel()

	listYAML := `
templates:
  - id: one
    title: One
    content: "{{x}}"
    fields:
      - id: x
        type: text
  - id: two
    title: Two
    content: "{{y}}"
    fields:
      - id: y
        type: text
`
	cat, err := LoadFS(fstest.MapFS{"all.yaml": {Data: []byte(listYAML)}})
	if err != nil {
		t.Fatalf("LoadFS returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"one", "two"}, cat.IDs()); diff != "" {
		t.Fatalf("IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSRejectsDuplicatesAndInvalid(t *testing.T) {
	t.Parallel()

	dup := fstest.MapFS{
		"a.yaml": {Data: []byte(letterYAML)},
		"b.yaml": {Data: []byte(letterYAML)},
	}
	if _, err := LoadFS(dup); err == nil || !strings.Contains(err.Error(), "duplicate template id") {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	invalid := fstest.MapFS{
		"bad.yaml": {Data: []byte("id: bad\ncontent: x\nfields:\n  - id: \"not ok\"\n    type: text\n")},
	}
	if _, err := LoadFS(invalid); err == nil {
		t.Fatal("expected validation error")
	}

	empty := fstest.MapFS{"none.yaml": {Data: []byte("title: just metadata\n")}}
	if _, err := LoadFS(empty); err == nil || !strings.Contains(err.Error(), "defines no templates") {
		t.Fatalf("expected no-templates error, got %v", err)
	}
}

func TestLoadFSNil(t *testing.T) {
	t.Parallel()

	cat, err := LoadFS(nil)
	if err != nil {
		t.Fatalf("LoadFS(nil) returned error: %v", err)
	}
	if cat.Len() != 0 {
		t.Fatalf("Len = %d, want 0", cat.Len())
	}
}

func TestBuiltinCatalog(t *testing.T) {
	t.Parallel()

	cat, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin returned error: %v", err)
	}
	for _, id := range []string{"employment_contract", "rental_agreement", "claim_letter"} {
		tpl, ok := cat.Get(id)
		if !ok {
			t.Fatalf("built-in template %q missing", id)
		}
		if err := tpl.Validate(); err != nil {
			t.Fatalf("built-in template %q invalid: %v", id, err)
		}
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	t.Parallel()

	tpl := model.Template{
		ID:      "t",
		Content: "{{a}}",
		Fields:  []model.Field{{ID: "a", Type: model.FieldTypeText}},
	}
	if _, err := New(tpl, tpl); err == nil {
		t.Fatal("expected duplicate error")
	}
}
