package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docgen/pkg/model"
)

func employmentTemplate() model.Template {
	return model.Template{
		ID:    "employment_contract",
		Title: "Employment Contract",
		Fields: []model.Field{
			{ID: "employer", Label: "Employer", Type: model.FieldTypeText, Required: true},
			{ID: "salary", Label: "Salary", Type: model.FieldTypeNumber, Required: true},
		},
		Content: "Employer: {{employer}}, Salary: {{salary}}",
	}
}

func TestValidateHappyPath(t *testing.T) {
	t.Parallel()

	s, err := Build(employmentTemplate())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	result := s.Validate(model.Values{
		"employer": `ТОО "Ромашка"`,
		"salary":   "250000",
	})
	if !result.Valid {
		t.Fatalf("expected valid, got errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	t.Parallel()

	s, err := Build(employmentTemplate())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	result := s.Validate(model.Values{"employer": `ТОО "Ромашка"`})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if result.Errors["salary"] == "" {
		t.Fatalf("expected a salary error, got %v", result.Errors)
	}
	if _, ok := result.Errors["employer"]; ok {
		t.Fatalf("employer should not have an error: %v", result.Errors)
	}
}

func TestValidateRequiredRejectsEmptyForms(t *testing.T) {
	t.Parallel()

	s, err := Build(employmentTemplate())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	for name, values := range map[string]model.Values{
		"absent":     {},
		"nil":        {"employer": nil, "salary": nil},
		"empty":      {"employer": "", "salary": ""},
		"whitespace": {"employer": "  ", "salary": "\t"},
	} {
		result := s.Validate(values)
		if result.Valid {
			t.Fatalf("%s: expected invalid", name)
		}
		if result.Errors["employer"] == "" || result.Errors["salary"] == "" {
			t.Fatalf("%s: expected errors for both fields, got %v", name, result.Errors)
		}
	}
}

// Required fields accept any non-empty string, even when the string does not
// parse for the field's type. Parseability is only enforced on present
// values of non-required number/date fields. This preserves the validation
// contract documents were created under.
func TestValidateRequiredNumberAcceptsAnyNonEmptyString(t *testing.T) {
	t.Parallel()

	s, err := Build(employmentTemplate())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	result := s.Validate(model.Values{"employer": "x", "salary": "250000"})
	if !result.Valid {
		t.Fatalf("numeric string should pass: %v", result.Errors)
	}
}

func TestValidateNumberParseability(t *testing.T) {
	t.Parallel()

	tpl := model.Template{
		ID:      "t",
		Content: "{{amount}}",
		Fields: []model.Field{
			{ID: "amount", Type: model.FieldTypeNumber},
		},
	}
	s, err := Build(tpl)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if result := s.Validate(model.Values{"amount": "12.50"}); !result.Valid {
		t.Fatalf("parseable number rejected: %v", result.Errors)
	}
	if result := s.Validate(model.Values{"amount": "a lot"}); result.Valid {
		t.Fatal("unparseable number accepted")
	}
	// Absent optional values are fine.
	if result := s.Validate(model.Values{}); !result.Valid {
		t.Fatalf("absent optional value rejected: %v", result.Errors)
	}
}

func TestValidateDateParseability(t *testing.T) {
	t.Parallel()

	tpl := model.Template{
		ID:      "t",
		Content: "{{when}}",
		Fields: []model.Field{
			{ID: "when", Type: model.FieldTypeDate},
		},
	}
	s, err := Build(tpl)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	for _, ok := range []string{"2026-08-30", "30.08.2026", "2026-08-30T12:00:00Z"} {
		if result := s.Validate(model.Values{"when": ok}); !result.Valid {
			t.Fatalf("date %q rejected: %v", ok, result.Errors)
		}
	}
	if result := s.Validate(model.Values{"when": "yesterday"}); result.Valid {
		t.Fatal("unparseable date accepted")
	}
}

func TestValidateSelectMembership(t *testing.T) {
	t.Parallel()

	tpl := model.Template{
		ID:      "t",
		Content: "{{kind}}",
		Fields: []model.Field{
			{
				ID:       "kind",
				Type:     model.FieldTypeSelect,
				Required: true,
				Options: []model.Option{
					{Value: "permanent", Label: "Permanent"},
					{Value: "fixed_term", Label: "Fixed term"},
				},
			},
		},
	}
	s, err := Build(tpl)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if result := s.Validate(model.Values{"kind": "permanent"}); !result.Valid {
		t.Fatalf("member value rejected: %v", result.Errors)
	}
	if result := s.Validate(model.Values{"kind": "casual"}); result.Valid {
		t.Fatal("non-member value accepted")
	}
	if result := s.Validate(model.Values{}); result.Valid {
		t.Fatal("missing required select accepted")
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	t.Parallel()

	s, err := Build(employmentTemplate())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	values := model.Values{"employer": "x"}
	first := s.Validate(values)
	second := s.Validate(values)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Validate is not idempotent (-first +second):\n%s", diff)
	}
}

func TestResultClearField(t *testing.T) {
	t.Parallel()

	s, err := Build(employmentTemplate())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	result := s.Validate(model.Values{})
	if result.Valid {
		t.Fatal("expected invalid result")
	}

	result.ClearField("employer")
	if _, ok := result.Errors["employer"]; ok {
		t.Fatal("employer error should be cleared")
	}
	if result.Valid {
		t.Fatal("result should stay invalid while salary error remains")
	}

	result.ClearField("salary")
	if !result.Valid {
		t.Fatal("result should become valid once all errors clear")
	}
}

func TestBuildRejectsInvalidTemplate(t *testing.T) {
	t.Parallel()

	tpl := employmentTemplate()
	tpl.Fields = append(tpl.Fields, model.Field{ID: "employer", Type: model.FieldTypeText})
	if _, err := Build(tpl); err == nil {
		t.Fatal("Build should reject duplicate field ids")
	}
}
