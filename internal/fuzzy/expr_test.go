package fuzzy

import (
	"math"
	"testing"
)

// identityEngine builds an engine whose inputs "x" and "y" each carry a term
// "high" with Degree(v) == v on [0, 1], so a crisp input is its own firing
// strength. The output exists only to satisfy engine validation.
func identityEngine(t *testing.T) *Engine {
	t.Helper()

	unit := mustUniverse(t, 0, 1, 0.1)
	newIn := func(name string) *Variable {
		v, err := NewVariable(name, unit)
		if err != nil {
			t.Fatalf("NewVariable(%s): %v", name, err)
		}
		if err := v.AddTerm("high", mustTrapezoid(t, 0, 1, 1, 1)); err != nil {
			t.Fatalf("AddTerm(%s, high): %v", name, err)
		}
		return v
	}
	x := newIn("x")
	y := newIn("y")

	out, err := NewVariable("z", mustUniverse(t, 0, 10, 1))
	if err != nil {
		t.Fatalf("NewVariable(z): %v", err)
	}
	if err := out.AddTerm("some", mustTriangle(t, 0, 5, 10)); err != nil {
		t.Fatalf("AddTerm(z, some): %v", err)
	}

	e, err := NewEngine(
		[]*Variable{x, y},
		[]*Variable{out},
		[]Rule{NewRule(Term("x", "high"), "z", "some")},
	)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestExpr_ZadehSemantics(t *testing.T) {
	t.Parallel()

	e := identityEngine(t)
	grid := []float64{0, 0.25, 0.5, 0.75, 1}

	for _, a := range grid {
		for _, b := range grid {
			in := map[string]float64{"x": a, "y": b}

			and := And(Term("x", "high"), Term("y", "high")).eval(e, in)
			if want := math.Min(a, b); and != want {
				t.Errorf("And(%v, %v) = %v, want %v", a, b, and, want)
			}

			or := Or(Term("x", "high"), Term("y", "high")).eval(e, in)
			if want := math.Max(a, b); or != want {
				t.Errorf("Or(%v, %v) = %v, want %v", a, b, or, want)
			}
		}
	}

	for _, a := range grid {
		in := map[string]float64{"x": a, "y": 0}
		not := Not(Term("x", "high")).eval(e, in)
		if want := 1 - a; not != want {
			t.Errorf("Not(%v) = %v, want %v", a, not, want)
		}
	}
}

func TestExpr_Nesting(t *testing.T) {
	t.Parallel()

	e := identityEngine(t)
	in := map[string]float64{"x": 0.8, "y": 0.3}

	// NOT (x AND y) = 1 - min(0.8, 0.3) = 0.7
	expr := Not(And(Term("x", "high"), Term("y", "high")))
	if got := expr.eval(e, in); math.Abs(got-0.7) > 1e-12 {
		t.Errorf("eval = %v, want 0.7", got)
	}

	// (x OR y) AND NOT y = min(max(0.8, 0.3), 0.7) = 0.7
	expr = And(Or(Term("x", "high"), Term("y", "high")), Not(Term("y", "high")))
	if got := expr.eval(e, in); math.Abs(got-0.7) > 1e-12 {
		t.Errorf("eval = %v, want 0.7", got)
	}
}

func TestAllOfAnyOf(t *testing.T) {
	t.Parallel()

	e := identityEngine(t)
	in := map[string]float64{"x": 0.6, "y": 0.2}

	all := AllOf(Term("x", "high"), Term("y", "high"), Not(Term("y", "high")))
	if got := all.eval(e, in); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("AllOf eval = %v, want 0.2", got)
	}

	any := AnyOf(Term("x", "high"), Term("y", "high"))
	if got := any.eval(e, in); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("AnyOf eval = %v, want 0.6", got)
	}

	if AllOf() != nil {
		t.Error("AllOf() with no arguments should be nil")
	}

	single := AnyOf(Term("x", "high"))
	if got := single.eval(e, in); got != 0.6 {
		t.Errorf("AnyOf with one argument eval = %v, want 0.6", got)
	}
}

func TestExpr_String(t *testing.T) {
	t.Parallel()

	expr := And(Term("soil_moisture", "dry"), Not(Term("temperature", "hot")))
	want := "(soil_moisture IS dry AND NOT temperature IS hot)"
	if got := expr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
