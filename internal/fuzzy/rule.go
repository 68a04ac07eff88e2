package fuzzy

// Rule pairs an antecedent expression with a consequent output term. When the
// antecedent fires with strength s > 0, the consequent term's membership
// function is clipped at s and merged into the output's aggregate set.
type Rule struct {
	// Label names the rule for diagnostics. Optional.
	Label string

	// Antecedent is the condition tree evaluated to a firing strength.
	Antecedent Expr

	// Variable and Term name the consequent: an output variable of the
	// engine and one of its terms.
	Variable string
	Term     string
}

// NewRule is a convenience constructor for an unlabeled rule.
func NewRule(antecedent Expr, outputVariable, outputTerm string) Rule {
	return Rule{Antecedent: antecedent, Variable: outputVariable, Term: outputTerm}
}

func (r Rule) validate(e *Engine, idx int) error {
	name := r.Label
	if name == "" {
		name = "rule"
	}
	if r.Antecedent == nil {
		return configErrorf("%s #%d: antecedent must not be nil", name, idx+1)
	}
	if err := r.Antecedent.validate(e); err != nil {
		return configErrorf("%s #%d: %v", name, idx+1, err)
	}
	out, ok := e.outputs[r.Variable]
	if !ok {
		return configErrorf("%s #%d: consequent references undeclared output variable %q", name, idx+1, r.Variable)
	}
	if _, ok := out.Term(r.Term); !ok {
		return configErrorf("%s #%d: consequent references unknown term %q of output %q", name, idx+1, r.Term, r.Variable)
	}
	return nil
}

// String renders the rule as "IF <antecedent> THEN <variable> IS <term>".
func (r Rule) String() string {
	s := "IF " + r.Antecedent.String() + " THEN " + r.Variable + " IS " + r.Term
	if r.Label != "" {
		s = r.Label + ": " + s
	}
	return s
}
