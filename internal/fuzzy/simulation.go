package fuzzy

// FiredRule records a rule's firing strength for one Compute, in rule-base
// order. Diagnostics only; it does not affect results.
type FiredRule struct {
	Rule     Rule
	Strength float64
}

// Simulation is the per-evaluation scratchpad for one Engine: the caller sets
// crisp inputs, calls Compute, and reads crisp outputs. A Simulation must not
// be shared between goroutines; create one per concurrent caller instead —
// the engine itself is read-only and safe to share.
//
// Inputs carry no memory between cycles: the first SetInput after a Compute
// discards all previous inputs, so every cycle must respecify the full set.
type Simulation struct {
	engine   *Engine
	inputs   map[string]float64
	outputs  map[string]float64
	fired    []FiredRule
	computed bool
}

// NewSimulation creates an empty simulation bound to e.
func NewSimulation(e *Engine) *Simulation {
	return &Simulation{
		engine:  e,
		inputs:  make(map[string]float64),
		outputs: make(map[string]float64),
	}
}

// SetInput supplies the crisp value for an input variable. Values outside the
// variable's universe are accepted and clamped during fuzzification. Calling
// SetInput after a Compute starts a fresh cycle with no carried-over inputs.
func (s *Simulation) SetInput(name string, value float64) error {
	if _, ok := s.engine.inputs[name]; !ok {
		return inputErrorf("set input", "unknown input variable %q", name)
	}
	if s.computed {
		clear(s.inputs)
		clear(s.outputs)
		s.fired = nil
		s.computed = false
	}
	s.inputs[name] = value
	return nil
}

// Compute runs one Mamdani cycle: evaluates every rule's antecedent against
// the current inputs, clips each consequent term at its firing strength,
// aggregates per output variable by pointwise maximum, and defuzzifies each
// aggregate with the centroid method.
//
// Every declared input must have been set this cycle, otherwise an InputError
// is returned and no state changes. The result depends only on the current
// inputs and the rule base.
//
// If an output's aggregate is zero everywhere, the output is populated with
// its universe midpoint and Compute returns a *ComputationError (matching
// ErrNoRuleFired via errors.Is); all other outputs are still computed
// normally, so the error may be logged and ignored.
func (s *Simulation) Compute() error {
	for _, name := range s.engine.inputOrder {
		if _, ok := s.inputs[name]; !ok {
			return inputErrorf("compute", "input variable %q has not been set this cycle", name)
		}
	}

	// Rule firing. Strengths are recorded for diagnostics before the
	// zero-strength skip below.
	s.fired = make([]FiredRule, 0, len(s.engine.rules))
	strengths := make([]float64, len(s.engine.rules))
	for i, r := range s.engine.rules {
		st := r.Antecedent.eval(s.engine, s.inputs)
		strengths[i] = st
		s.fired = append(s.fired, FiredRule{Rule: r, Strength: st})
	}

	// Implication and aggregation, then defuzzification per output.
	// Aggregate buffers are rebuilt from zero each cycle.
	clear(s.outputs)
	var defaulted []string
	for _, name := range s.engine.outputOrder {
		out := s.engine.outputs[name]
		points := out.Universe().Points()
		agg := make([]float64, len(points))

		for i, r := range s.engine.rules {
			if r.Variable != name || strengths[i] == 0 {
				continue
			}
			mf, _ := out.Term(r.Term)
			for j, x := range points {
				clipped := mf.Degree(x)
				if strengths[i] < clipped {
					clipped = strengths[i]
				}
				if clipped > agg[j] {
					agg[j] = clipped
				}
			}
		}

		value, ok := Centroid(out.Universe(), agg)
		s.outputs[name] = value
		if !ok {
			defaulted = append(defaulted, name)
		}
	}

	s.computed = true
	if len(defaulted) > 0 {
		return &ComputationError{Variables: defaulted}
	}
	return nil
}

// Output returns the crisp value computed for an output variable. It fails
// if Compute has not run this cycle or the name is unknown. Values are finite
// and within the output universe's bounds.
func (s *Simulation) Output(name string) (float64, error) {
	if !s.computed {
		return 0, inputErrorf("output", "Compute has not been called this cycle")
	}
	v, ok := s.outputs[name]
	if !ok {
		return 0, inputErrorf("output", "unknown output variable %q", name)
	}
	return v, nil
}

// Fired returns the firing strength of every rule from the last Compute, in
// rule-base order. It fails if Compute has not run this cycle.
func (s *Simulation) Fired() ([]FiredRule, error) {
	if !s.computed {
		return nil, inputErrorf("output", "Compute has not been called this cycle")
	}
	out := make([]FiredRule, len(s.fired))
	copy(out, s.fired)
	return out, nil
}
