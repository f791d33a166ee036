package manifest

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestInspect_ValidDescriptors(t *testing.T) {
	for _, file := range []string{"valid-full.yaml", "valid-minimal.yaml", "valid-empty.yaml"} {
		t.Run(file, func(t *testing.T) {
			d, report, err := Inspect(afero.NewOsFs(), testPath(file))
			if err != nil {
				t.Fatalf("Inspect(%s) error: %v", file, err)
			}
			if !report.Valid() {
				t.Fatalf("expected valid, got %s", report)
			}
			if d == nil {
				t.Error("valid descriptor should be decoded")
			}
		})
	}
}

func TestInspect_InvalidDescriptors(t *testing.T) {
	tests := []struct {
		file  string
		field string
		rule  Rule
		msg   string
	}{
		{"invalid-unknown-field.yaml", "", RuleUnknownField, "version"},
		{"invalid-bad-name.yaml", "name", RuleIdentifier, `"my-pkg" is not a valid Python identifier`},
		{"invalid-exclude-type.yaml", "exclude", RuleType, "expected array, got string"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			d, report, err := Inspect(afero.NewOsFs(), testPath(tt.file))
			if err != nil {
				t.Fatalf("Inspect(%s) unexpected error: %v", tt.file, err)
			}
			if d != nil {
				t.Error("invalid descriptor should not be decoded")
			}
			if len(report.Problems) != 1 {
				t.Fatalf("expected one problem, got %+v", report.Problems)
			}
			p := report.Problems[0]
			if p.Field != tt.field || p.Rule != tt.rule {
				t.Errorf("problem = %+v, want field %q rule %q", p, tt.field, tt.rule)
			}
			if !strings.Contains(p.Message, tt.msg) {
				t.Errorf("message %q does not mention %q", p.Message, tt.msg)
			}
		})
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
		rule  Rule
	}{
		{"empty exclude entry", "exclude: [\"\"]\n", "exclude[0]", RuleEmpty},
		{"non-string exclude entry", "exclude: [docs, 3]\n", "exclude[1]", RuleType},
		{"empty requires_python", "requires_python: \"\"\n", "requires_python", RuleEmpty},
		{"numeric name", "name: 12\n", "name", RuleType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Validate([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if report.Valid() {
				t.Fatal("expected problems")
			}
			p := report.Problems[0]
			if p.Field != tt.field || p.Rule != tt.rule {
				t.Errorf("problem = %+v, want field %q rule %q", p, tt.field, tt.rule)
			}
		})
	}
}

func TestValidate_MalformedYAML(t *testing.T) {
	if _, _, err := Inspect(afero.NewOsFs(), testPath("invalid-yaml.yaml")); err == nil {
		t.Error("expected error for malformed YAML")
	}
	if _, err := Validate([]byte("- just\n- a list\n")); err == nil {
		t.Error("expected error for a non-mapping document")
	}
}

func TestInspect_NotFound(t *testing.T) {
	if _, _, err := Inspect(afero.NewMemMapFs(), "/missing/"+FileName); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReportString(t *testing.T) {
	r := &Report{Problems: []Problem{
		{Field: "name", Message: "bad"},
		{Message: "unknown field x"},
	}}
	if got := r.String(); got != "name: bad; unknown field x" {
		t.Errorf("String() = %q", got)
	}
}

func TestFieldName(t *testing.T) {
	tests := []struct {
		loc  []string
		want string
	}{
		{nil, ""},
		{[]string{"name"}, "name"},
		{[]string{"exclude", "2"}, "exclude[2]"},
	}
	for _, tt := range tests {
		if got := fieldName(tt.loc); got != tt.want {
			t.Errorf("fieldName(%v) = %q, want %q", tt.loc, got, tt.want)
		}
	}
}
