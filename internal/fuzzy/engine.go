package fuzzy

// Engine holds the fixed set of input and output linguistic variables and the
// rule base. Construction validates every cross-reference; an Engine that was
// built successfully cannot fail during computation except for the documented
// no-rule-fired fallback. Engines are immutable and safe for concurrent use
// by independent Simulations.
type Engine struct {
	inputs      map[string]*Variable
	outputs     map[string]*Variable
	inputOrder  []string
	outputOrder []string
	rules       []Rule
}

// NewEngine validates and assembles an engine. Every rule's Term leaves must
// reference declared input variables and terms, and every consequent must
// reference a declared output variable and term. Variable names must be
// unique across inputs and outputs, every variable needs at least one term,
// and the rule base must not be empty.
func NewEngine(inputs, outputs []*Variable, rules []Rule) (*Engine, error) {
	if len(inputs) == 0 {
		return nil, configErrorf("engine needs at least one input variable")
	}
	if len(outputs) == 0 {
		return nil, configErrorf("engine needs at least one output variable")
	}
	if len(rules) == 0 {
		return nil, configErrorf("engine needs at least one rule")
	}

	e := &Engine{
		inputs:  make(map[string]*Variable, len(inputs)),
		outputs: make(map[string]*Variable, len(outputs)),
	}

	seen := make(map[string]bool, len(inputs)+len(outputs))
	for _, v := range inputs {
		if v == nil {
			return nil, configErrorf("nil input variable")
		}
		if seen[v.Name()] {
			return nil, configErrorf("duplicate variable name %q", v.Name())
		}
		if len(v.Terms()) == 0 {
			return nil, configErrorf("input variable %q has no terms", v.Name())
		}
		seen[v.Name()] = true
		e.inputs[v.Name()] = v
		e.inputOrder = append(e.inputOrder, v.Name())
	}
	for _, v := range outputs {
		if v == nil {
			return nil, configErrorf("nil output variable")
		}
		if seen[v.Name()] {
			return nil, configErrorf("duplicate variable name %q", v.Name())
		}
		if len(v.Terms()) == 0 {
			return nil, configErrorf("output variable %q has no terms", v.Name())
		}
		seen[v.Name()] = true
		e.outputs[v.Name()] = v
		e.outputOrder = append(e.outputOrder, v.Name())
	}

	for i, r := range rules {
		if err := r.validate(e, i); err != nil {
			return nil, err
		}
	}
	e.rules = append([]Rule(nil), rules...)

	return e, nil
}

// Inputs returns the input variable names in declaration order.
func (e *Engine) Inputs() []string {
	return append([]string(nil), e.inputOrder...)
}

// Outputs returns the output variable names in declaration order.
func (e *Engine) Outputs() []string {
	return append([]string(nil), e.outputOrder...)
}

// Rules returns a copy of the rule base in declaration order. Order has no
// effect on results (aggregation by max is commutative) but is preserved for
// diagnostics.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// InputVariable looks up an input variable by name.
func (e *Engine) InputVariable(name string) (*Variable, bool) {
	v, ok := e.inputs[name]
	return v, ok
}

// OutputVariable looks up an output variable by name.
func (e *Engine) OutputVariable(name string) (*Variable, bool) {
	v, ok := e.outputs[name]
	return v, ok
}

// Variable looks up any variable by name, input or output.
func (e *Engine) Variable(name string) (*Variable, bool) {
	if v, ok := e.inputs[name]; ok {
		return v, true
	}
	v, ok := e.outputs[name]
	return v, ok
}
