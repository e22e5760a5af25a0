package model

import (
	"strings"
	"testing"
)

func validTemplate() Template {
	return Template{
		ID:    "claim_letter",
		Title: "Claim Letter",
		Fields: []Field{
			{ID: "claimant", Type: FieldTypeText, Required: true},
			{ID: "kind", Type: FieldTypeSelect, Options: []Option{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}}},
		},
		Content: "From {{claimant}}",
	}
}

func TestTemplateValidateAcceptsWellFormed(t *testing.T) {
	t.Parallel()

	if err := validTemplate().Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestTemplateValidateRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Template)
		wantSub string
	}{
		{"missing id", func(tpl *Template) { tpl.ID = " " }, "template id"},
		{"missing content", func(tpl *Template) { tpl.Content = "" }, "content"},
		{"duplicate field id", func(tpl *Template) {
			tpl.Fields = append(tpl.Fields, Field{ID: "claimant", Type: FieldTypeText})
		}, "duplicate field id"},
		{"illegal identifier", func(tpl *Template) { tpl.Fields[0].ID = "claim-ant" }, "identifier"},
		{"leading digit", func(tpl *Template) { tpl.Fields[0].ID = "1st" }, "identifier"},
		{"select without options", func(tpl *Template) { tpl.Fields[1].Options = nil }, "require options"},
		{"options on text field", func(tpl *Template) {
			tpl.Fields[0].Options = []Option{{Value: "x", Label: "X"}}
		}, "only valid on select/radio"},
		{"duplicate option value", func(tpl *Template) {
			tpl.Fields[1].Options = append(tpl.Fields[1].Options, Option{Value: "a", Label: "Again"})
		}, "duplicate option value"},
		{"unknown field type", func(tpl *Template) { tpl.Fields[0].Type = "color" }, "unknown type"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tpl := validTemplate()
			tc.mutate(&tpl)
			err := tpl.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestIsIdentifier(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"a", "salary", "start_date", "_x", "f2", "CamelCase"} {
		if !IsIdentifier(ok) {
			t.Fatalf("IsIdentifier(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"", "2nd", "with space", "dash-ed", "dot.ted", "ключ"} {
		if IsIdentifier(bad) {
			t.Fatalf("IsIdentifier(%q) = true, want false", bad)
		}
	}
}

func TestValuesClone(t *testing.T) {
	t.Parallel()

	original := Values{"a": "1"}
	clone := original.Clone()
	clone["a"] = "2"
	if original["a"] != "1" {
		t.Fatal("Clone shares storage with the original")
	}

	if Values(nil).Clone() != nil {
		t.Fatal("nil Clone should stay nil")
	}
}

func TestTemplateFieldLookup(t *testing.T) {
	t.Parallel()

	tpl := validTemplate()
	if _, ok := tpl.Field("claimant"); !ok {
		t.Fatal("expected claimant field")
	}
	if _, ok := tpl.Field("nope"); ok {
		t.Fatal("unexpected field")
	}
}
