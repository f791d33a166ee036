package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/descriptor.schema.json
var schemaBytes []byte

var printer = message.NewPrinter(language.English)

// Rule is the descriptor constraint a Problem breaks.
type Rule string

const (
	RuleUnknownField Rule = "unknown-field"
	RuleIdentifier   Rule = "identifier"
	RuleType         Rule = "type"
	RuleEmpty        Rule = "empty"
	RuleOther        Rule = "other"
)

// Problem is one reason a descriptor was rejected.
type Problem struct {
	// Field is the offending key, e.g. "name" or "exclude[1]"; empty for
	// the document itself.
	Field   string
	Rule    Rule
	Message string
}

func (p Problem) String() string {
	if p.Field == "" {
		return p.Message
	}
	return p.Field + ": " + p.Message
}

// Report lists the problems found in a descriptor.
type Report struct {
	Problems []Problem
}

// Valid reports whether the descriptor had no problems.
func (r *Report) Valid() bool {
	return len(r.Problems) == 0
}

// String joins the problems into one line.
func (r *Report) String() string {
	parts := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		parts[i] = p.String()
	}
	return strings.Join(parts, "; ")
}

var descriptorSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding descriptor schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("descriptor.schema.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("descriptor.schema.json")
})

// Validate checks raw descriptor YAML against the embedded schema. The
// error is for malformed YAML or a broken schema; rule violations are
// reported in the Report.
func Validate(data []byte) (*Report, error) {
	schema, err := descriptorSchema()
	if err != nil {
		return nil, fmt.Errorf("loading descriptor schema: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	// The validator wants JSON-decoded values (json.Number, []any).
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting descriptor to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	err = schema.Validate(inst)
	if err == nil {
		return &Report{}, nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, err
	}
	return &Report{Problems: problemsOf(ve)}, nil
}

func problemsOf(ve *jsonschema.ValidationError) []Problem {
	if len(ve.Causes) > 0 {
		var out []Problem
		for _, c := range ve.Causes {
			out = append(out, problemsOf(c)...)
		}
		return out
	}

	p := Problem{Field: fieldName(ve.InstanceLocation)}
	switch k := ve.ErrorKind.(type) {
	case *kind.AdditionalProperties:
		p.Rule = RuleUnknownField
		p.Message = printer.Sprintf("unknown field %s", strings.Join(k.Properties, ", "))
	case *kind.Pattern:
		p.Rule = RuleIdentifier
		p.Message = printer.Sprintf("%q is not a valid Python identifier", k.Got)
	case *kind.Type:
		p.Rule = RuleType
		p.Message = printer.Sprintf("expected %s, got %s", strings.Join(k.Want, " or "), k.Got)
	case *kind.MinLength:
		p.Rule = RuleEmpty
		p.Message = "must not be empty"
	default:
		p.Rule = RuleOther
		p.Message = ve.ErrorKind.LocalizedString(printer)
	}
	return []Problem{p}
}

// fieldName renders an instance location as name, exclude[0], ...
func fieldName(loc []string) string {
	var b strings.Builder
	for i, part := range loc {
		if _, err := strconv.Atoi(part); err == nil && i > 0 {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
