package fuzzy

import (
	"strings"
	"testing"
)

func testVariable(t *testing.T, name string, u Universe, terms map[string]Membership) *Variable {
	t.Helper()
	v, err := NewVariable(name, u)
	if err != nil {
		t.Fatalf("NewVariable(%s): %v", name, err)
	}
	for term, m := range terms {
		if err := v.AddTerm(term, m); err != nil {
			t.Fatalf("AddTerm(%s, %s): %v", name, term, err)
		}
	}
	return v
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	unit := mustUniverse(t, 0, 1, 0.1)
	in := func() *Variable {
		return testVariable(t, "x", unit, map[string]Membership{
			"high": mustTrapezoid(t, 0, 1, 1, 1),
		})
	}
	out := func() *Variable {
		return testVariable(t, "z", unit, map[string]Membership{
			"some": mustTrapezoid(t, 0, 1, 1, 1),
		})
	}
	okRule := NewRule(Term("x", "high"), "z", "some")

	tests := []struct {
		name    string
		inputs  []*Variable
		outputs []*Variable
		rules   []Rule
		errPart string
	}{
		{"no inputs", nil, []*Variable{out()}, []Rule{okRule}, "at least one input"},
		{"no outputs", []*Variable{in()}, nil, []Rule{okRule}, "at least one output"},
		{"no rules", []*Variable{in()}, []*Variable{out()}, nil, "at least one rule"},
		{"nil input variable", []*Variable{nil}, []*Variable{out()}, []Rule{okRule}, "nil input"},
		{"duplicate names", []*Variable{in(), in()}, []*Variable{out()}, []Rule{okRule}, "duplicate variable"},
		{
			"input as output name", []*Variable{in()},
			[]*Variable{testVariable(t, "x", unit, map[string]Membership{"some": mustTrapezoid(t, 0, 1, 1, 1)})},
			[]Rule{okRule}, "duplicate variable",
		},
		{
			"termless variable", []*Variable{mustBareVariable(t, "x", unit)}, []*Variable{out()},
			[]Rule{okRule}, "has no terms",
		},
		{"nil antecedent", []*Variable{in()}, []*Variable{out()}, []Rule{NewRule(nil, "z", "some")}, "nil"},
		{
			"unknown antecedent variable", []*Variable{in()}, []*Variable{out()},
			[]Rule{NewRule(Term("ghost", "high"), "z", "some")}, "undeclared input variable",
		},
		{
			"unknown antecedent term", []*Variable{in()}, []*Variable{out()},
			[]Rule{NewRule(Term("x", "ghost"), "z", "some")}, "unknown term",
		},
		{
			"output variable in antecedent", []*Variable{in()}, []*Variable{out()},
			[]Rule{NewRule(Term("z", "some"), "z", "some")}, "undeclared input variable",
		},
		{
			"unknown consequent variable", []*Variable{in()}, []*Variable{out()},
			[]Rule{NewRule(Term("x", "high"), "ghost", "some")}, "undeclared output variable",
		},
		{
			"unknown consequent term", []*Variable{in()}, []*Variable{out()},
			[]Rule{NewRule(Term("x", "high"), "z", "ghost")}, "unknown term",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEngine(tc.inputs, tc.outputs, tc.rules)
			if err == nil {
				t.Fatal("NewEngine should fail")
			}
			if !IsConfigError(err) {
				t.Fatalf("expected ConfigError, got %T: %v", err, err)
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("error %q does not mention %q", err, tc.errPart)
			}
		})
	}
}

func mustBareVariable(t *testing.T, name string, u Universe) *Variable {
	t.Helper()
	v, err := NewVariable(name, u)
	if err != nil {
		t.Fatalf("NewVariable(%s): %v", name, err)
	}
	return v
}

func TestEngine_Accessors(t *testing.T) {
	t.Parallel()

	e := identityEngine(t)

	if got := e.Inputs(); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("Inputs() = %v, want [x y]", got)
	}
	if got := e.Outputs(); len(got) != 1 || got[0] != "z" {
		t.Errorf("Outputs() = %v, want [z]", got)
	}
	if got := e.Rules(); len(got) != 1 {
		t.Errorf("len(Rules()) = %d, want 1", len(got))
	}
	if _, ok := e.InputVariable("x"); !ok {
		t.Error("InputVariable(x) not found")
	}
	if _, ok := e.InputVariable("z"); ok {
		t.Error("InputVariable(z) should not resolve an output")
	}
	if _, ok := e.OutputVariable("z"); !ok {
		t.Error("OutputVariable(z) not found")
	}
	if _, ok := e.Variable("y"); !ok {
		t.Error("Variable(y) not found")
	}
	if _, ok := e.Variable("ghost"); ok {
		t.Error("Variable(ghost) should not resolve")
	}
}

func TestRule_String(t *testing.T) {
	t.Parallel()

	r := Rule{
		Label:      "parched",
		Antecedent: And(Term("soil_moisture", "dry"), Term("temperature", "hot")),
		Variable:   "watering_minutes",
		Term:       "long",
	}
	want := "parched: IF (soil_moisture IS dry AND temperature IS hot) THEN watering_minutes IS long"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
