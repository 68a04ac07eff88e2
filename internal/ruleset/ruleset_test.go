package ruleset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/irrigo/internal/fuzzy"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	e, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	inputs := e.Inputs()
	if len(inputs) != 3 {
		t.Fatalf("len(Inputs()) = %d, want 3", len(inputs))
	}
	want := []string{"soil_moisture", "temperature", "air_humidity"}
	for i, name := range want {
		if inputs[i] != name {
			t.Errorf("Inputs()[%d] = %q, want %q", i, inputs[i], name)
		}
	}

	outputs := e.Outputs()
	if len(outputs) != 1 || outputs[0] != "watering_minutes" {
		t.Fatalf("Outputs() = %v, want [watering_minutes]", outputs)
	}

	out, _ := e.OutputVariable("watering_minutes")
	terms := out.Terms()
	if len(terms) != 4 {
		t.Fatalf("output terms = %v, want 4 terms", terms)
	}

	if got := len(e.Rules()); got != 9 {
		t.Errorf("len(Rules()) = %d, want 9", got)
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	doc := `
variables:
  - name: x
    role: input
    rnage: {min: 0, max: 1, step: 0.1}
rules: []
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("Parse should reject unknown field rnage")
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("variables: [unclosed")); err == nil {
		t.Fatal("Parse should fail on malformed YAML")
	}
}

const minimalVars = `
variables:
  - name: x
    role: input
    range: {min: 0, max: 1, step: 0.1}
    terms:
      - {name: high, shape: trapezoid, points: [0, 1, 1, 1]}
  - name: y
    role: output
    range: {min: 0, max: 10, step: 1}
    terms:
      - {name: some, shape: triangle, points: [0, 5, 10]}
`

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		errPart string
	}{
		{
			"bad role",
			`
variables:
  - name: x
    role: sideways
    range: {min: 0, max: 1, step: 0.1}
    terms:
      - {name: high, shape: trapezoid, points: [0, 1, 1, 1]}
rules: []
`,
			"role",
		},
		{
			"unknown shape",
			`
variables:
  - name: x
    role: input
    range: {min: 0, max: 1, step: 0.1}
    terms:
      - {name: high, shape: gaussian, points: [0, 1, 1]}
rules: []
`,
			"unknown shape",
		},
		{
			"wrong point count",
			`
variables:
  - name: x
    role: input
    range: {min: 0, max: 1, step: 0.1}
    terms:
      - {name: high, shape: triangle, points: [0, 1]}
rules: []
`,
			"needs 3 points",
		},
		{
			"non-monotonic breakpoints",
			`
variables:
  - name: x
    role: input
    range: {min: 0, max: 1, step: 0.1}
    terms:
      - {name: high, shape: trapezoid, points: [1, 0.5, 0.2, 0]}
rules: []
`,
			"non-decreasing",
		},
		{
			"dangling rule reference",
			minimalVars + `
rules:
  - label: ghost
    when:
      term: {variable: x, is: ghost}
    then: {variable: y, is: some}
`,
			"unknown term",
		},
		{
			"ambiguous node",
			minimalVars + `
rules:
  - when:
      term: {variable: x, is: high}
      not:
        term: {variable: x, is: high}
    then: {variable: y, is: some}
`,
			"exactly one",
		},
		{
			"empty node",
			minimalVars + `
rules:
  - when: {}
    then: {variable: y, is: some}
`,
			"exactly one",
		},
		{
			"no rules",
			minimalVars + `
rules: []
`,
			"at least one rule",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc, err := Parse([]byte(tc.doc))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			_, err = doc.Build()
			if err == nil {
				t.Fatal("Build should fail")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("error %q does not mention %q", err, tc.errPart)
			}
		})
	}
}

func TestBuild_NestedAntecedents(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(minimalVars + `
rules:
  - label: nested
    when:
      any:
        - all:
            - term: {variable: x, is: high}
            - not:
                term: {variable: x, is: high}
        - term: {variable: x, is: high}
    then: {variable: y, is: some}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e, err := doc.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rules := e.Rules()
	if len(rules) != 1 {
		t.Fatalf("len(Rules()) = %d, want 1", len(rules))
	}
	want := "((x IS high AND NOT x IS high) OR x IS high)"
	if got := rules[0].Antecedent.String(); got != want {
		t.Errorf("antecedent = %q, want %q", got, want)
	}
}

func TestLoadEngine(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, DefaultYAML(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	e, err := LoadEngine(path)
	if err != nil {
		t.Fatalf("LoadEngine: %v", err)
	}
	if len(e.Rules()) != 9 {
		t.Errorf("len(Rules()) = %d, want 9", len(e.Rules()))
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadEngine(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("LoadEngine should fail for a missing file")
		}
	})
}

// The loaded default engine must behave identically to one assembled in code
// from the same definitions.
func TestDefault_MatchesHandBuilt(t *testing.T) {
	t.Parallel()

	loaded, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	u, _ := fuzzy.NewUniverse(0, 100, 1)
	soil, _ := fuzzy.NewVariable("soil_moisture", u)
	dry, _ := fuzzy.Trapezoid(0, 0, 20, 40)
	_ = soil.AddTerm("dry", dry)

	wantDeg, _ := soil.Fuzzify("dry", 25)
	gotVar, ok := loaded.InputVariable("soil_moisture")
	if !ok {
		t.Fatal("loaded engine missing soil_moisture")
	}
	gotDeg, err := gotVar.Fuzzify("dry", 25)
	if err != nil {
		t.Fatalf("Fuzzify: %v", err)
	}
	if gotDeg != wantDeg {
		t.Errorf("loaded dry(25) = %v, hand-built = %v", gotDeg, wantDeg)
	}
}
