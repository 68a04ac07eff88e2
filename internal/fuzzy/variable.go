package fuzzy

import "strings"

// Variable is a named linguistic variable: a universe plus a registry of
// named membership functions (terms). Terms are unique within a variable.
// Once handed to an Engine the variable must not be mutated.
type Variable struct {
	name     string
	universe Universe
	terms    map[string]Membership
	order    []string
}

// NewVariable creates a variable bound to u. The name must be non-empty.
func NewVariable(name string, u Universe) (*Variable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, configErrorf("variable name must not be empty")
	}
	return &Variable{
		name:     name,
		universe: u,
		terms:    make(map[string]Membership),
	}, nil
}

// AddTerm registers a membership function under term. It fails if the term
// already exists or if the function's support lies outside the universe.
func (v *Variable) AddTerm(term string, m Membership) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return configErrorf("variable %q: term name must not be empty", v.name)
	}
	if _, ok := v.terms[term]; ok {
		return configErrorf("variable %q: duplicate term %q", v.name, term)
	}
	a, _, _, d := m.Breakpoints()
	if !v.universe.Contains(a, d) {
		return configErrorf("variable %q term %q: support [%v, %v] outside universe [%v, %v]",
			v.name, term, a, d, v.universe.Min(), v.universe.Max())
	}
	v.terms[term] = m
	v.order = append(v.order, term)
	return nil
}

// Fuzzify returns the membership degree of crisp in term. Crisp values
// outside the universe are clamped to the nearest bound first. An unknown
// term is a ConfigError: term names are a construction-time contract, not
// caller input.
func (v *Variable) Fuzzify(term string, crisp float64) (float64, error) {
	m, ok := v.terms[term]
	if !ok {
		return 0, configErrorf("variable %q has no term %q", v.name, term)
	}
	return m.Degree(v.universe.Clamp(crisp)), nil
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Universe returns the variable's universe.
func (v *Variable) Universe() Universe { return v.universe }

// Terms returns the term names in registration order.
func (v *Variable) Terms() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Term looks up a term's membership function.
func (v *Variable) Term(name string) (Membership, bool) {
	m, ok := v.terms[name]
	return m, ok
}
