package fuzzy

// Expr is a node in a rule antecedent: a fuzzy-boolean expression tree over
// variable/term pairs with Zadeh semantics (AND = min, OR = max, NOT = 1-x).
// Trees are built with Term, And, Or, Not, AllOf and AnyOf; every Term leaf
// is checked against the engine's variable registry when the engine is
// constructed, never during evaluation.
type Expr interface {
	// eval returns the firing strength in [0, 1] for the current crisp
	// inputs. Leaves are guaranteed valid by engine construction.
	eval(e *Engine, inputs map[string]float64) float64

	// validate checks that every Term leaf references a declared input
	// variable and term.
	validate(e *Engine) error

	// String renders the expression for diagnostics,
	// e.g. "(soil_moisture IS dry AND temperature IS hot)".
	String() string
}

// Term is the leaf expression: the degree to which variable's current crisp
// input belongs to term.
func Term(variable, term string) Expr {
	return termExpr{variable: variable, term: term}
}

// And combines two expressions with fuzzy AND (minimum).
func And(left, right Expr) Expr { return andExpr{left: left, right: right} }

// Or combines two expressions with fuzzy OR (maximum).
func Or(left, right Expr) Expr { return orExpr{left: left, right: right} }

// Not negates an expression (fuzzy complement, 1 - x).
func Not(expr Expr) Expr { return notExpr{expr: expr} }

// AllOf folds two or more expressions with And. Min is associative, so the
// fold evaluates identically to any nesting. Returns nil for fewer than one
// argument; engine validation rejects nil antecedents.
func AllOf(exprs ...Expr) Expr { return fold(And, exprs) }

// AnyOf folds two or more expressions with Or.
func AnyOf(exprs ...Expr) Expr { return fold(Or, exprs) }

func fold(op func(Expr, Expr) Expr, exprs []Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = op(acc, e)
	}
	return acc
}

type termExpr struct {
	variable string
	term     string
}

func (t termExpr) eval(e *Engine, inputs map[string]float64) float64 {
	// Validated at construction; both lookups must succeed.
	v := e.inputs[t.variable]
	deg, _ := v.Fuzzify(t.term, inputs[t.variable])
	return deg
}

func (t termExpr) validate(e *Engine) error {
	v, ok := e.inputs[t.variable]
	if !ok {
		return configErrorf("antecedent references undeclared input variable %q", t.variable)
	}
	if _, ok := v.Term(t.term); !ok {
		return configErrorf("antecedent references unknown term %q of variable %q", t.term, t.variable)
	}
	return nil
}

func (t termExpr) String() string { return t.variable + " IS " + t.term }

type andExpr struct{ left, right Expr }

func (a andExpr) eval(e *Engine, inputs map[string]float64) float64 {
	l := a.left.eval(e, inputs)
	if l == 0 {
		// min saturates at 0.
		return 0
	}
	if r := a.right.eval(e, inputs); r < l {
		return r
	}
	return l
}

func (a andExpr) validate(e *Engine) error {
	return validateChildren(e, a.left, a.right)
}

func (a andExpr) String() string {
	return "(" + a.left.String() + " AND " + a.right.String() + ")"
}

type orExpr struct{ left, right Expr }

func (o orExpr) eval(e *Engine, inputs map[string]float64) float64 {
	l := o.left.eval(e, inputs)
	if l == 1 {
		// max saturates at 1.
		return 1
	}
	if r := o.right.eval(e, inputs); r > l {
		return r
	}
	return l
}

func (o orExpr) validate(e *Engine) error {
	return validateChildren(e, o.left, o.right)
}

func (o orExpr) String() string {
	return "(" + o.left.String() + " OR " + o.right.String() + ")"
}

type notExpr struct{ expr Expr }

func (n notExpr) eval(e *Engine, inputs map[string]float64) float64 {
	return 1 - n.expr.eval(e, inputs)
}

func (n notExpr) validate(e *Engine) error {
	return validateChildren(e, n.expr)
}

func (n notExpr) String() string { return "NOT " + n.expr.String() }

func validateChildren(e *Engine, children ...Expr) error {
	for _, c := range children {
		if c == nil {
			return configErrorf("antecedent has a nil subexpression")
		}
		if err := c.validate(e); err != nil {
			return err
		}
	}
	return nil
}
