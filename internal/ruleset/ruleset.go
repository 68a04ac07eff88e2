// Package ruleset loads fuzzy engine definitions from YAML documents, so the
// rule base can be swapped without recompiling. A document declares variables
// (universe + named trapezoid/triangle terms) and rules (an antecedent tree of
// all/any/not/term nodes plus a consequent). The embedded default document is
// the irrigation rule base.
package ruleset

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/irrigo/internal/fuzzy"
)

//go:embed defaults.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded irrigation rule base document.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Default builds the embedded irrigation rule base.
func Default() (*fuzzy.Engine, error) {
	doc, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded ruleset: %w", err)
	}
	return doc.Build()
}

// Document is the YAML shape of a rule base.
type Document struct {
	Variables []VariableDef `yaml:"variables"`
	Rules     []RuleDef     `yaml:"rules"`
}

// VariableDef declares one linguistic variable. Role is "input" or "output".
type VariableDef struct {
	Name  string    `yaml:"name"`
	Role  string    `yaml:"role"`
	Range RangeDef  `yaml:"range"`
	Terms []TermDef `yaml:"terms"`
}

// RangeDef is a variable's universe: [min, max] sampled every step.
type RangeDef struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// TermDef declares a named membership function. Shape is "trapezoid"
// (4 points) or "triangle" (3 points).
type TermDef struct {
	Name   string    `yaml:"name"`
	Shape  string    `yaml:"shape"`
	Points []float64 `yaml:"points"`
}

// TermRef references a variable/term pair.
type TermRef struct {
	Variable string `yaml:"variable"`
	Is       string `yaml:"is"`
}

// Node is one antecedent tree node. Exactly one field must be set: a term
// leaf, an n-ary all (fuzzy AND), an n-ary any (fuzzy OR), or a not.
type Node struct {
	Term *TermRef `yaml:"term,omitempty"`
	All  []Node   `yaml:"all,omitempty"`
	Any  []Node   `yaml:"any,omitempty"`
	Not  *Node    `yaml:"not,omitempty"`
}

// RuleDef declares one rule.
type RuleDef struct {
	Label string  `yaml:"label"`
	When  Node    `yaml:"when"`
	Then  TermRef `yaml:"then"`
}

// Parse decodes a YAML rule base document. Unknown fields are rejected so
// typos surface as load errors instead of silently ignored configuration.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing ruleset: %w", err)
	}
	return &doc, nil
}

// Load reads and parses a rule base file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset: %w", err)
	}
	return Parse(data)
}

// LoadEngine reads, parses and builds a rule base file in one step.
func LoadEngine(path string) (*fuzzy.Engine, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

// Build validates the document and assembles a fuzzy engine from it. All
// structural problems (bad breakpoints, duplicate terms, dangling variable or
// term references) surface here as configuration errors; a built engine
// cannot fail at compute time.
func (d *Document) Build() (*fuzzy.Engine, error) {
	var inputs, outputs []*fuzzy.Variable

	for _, vd := range d.Variables {
		v, err := buildVariable(vd)
		if err != nil {
			return nil, err
		}
		switch vd.Role {
		case "input":
			inputs = append(inputs, v)
		case "output":
			outputs = append(outputs, v)
		default:
			return nil, fmt.Errorf("variable %q: role must be %q or %q, got %q",
				vd.Name, "input", "output", vd.Role)
		}
	}

	rules := make([]fuzzy.Rule, 0, len(d.Rules))
	for i, rd := range d.Rules {
		expr, err := rd.When.expr()
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", ruleName(rd, i), err)
		}
		rules = append(rules, fuzzy.Rule{
			Label:      rd.Label,
			Antecedent: expr,
			Variable:   rd.Then.Variable,
			Term:       rd.Then.Is,
		})
	}

	return fuzzy.NewEngine(inputs, outputs, rules)
}

func ruleName(rd RuleDef, idx int) string {
	if rd.Label != "" {
		return fmt.Sprintf("%q", rd.Label)
	}
	return fmt.Sprintf("#%d", idx+1)
}

func buildVariable(vd VariableDef) (*fuzzy.Variable, error) {
	u, err := fuzzy.NewUniverse(vd.Range.Min, vd.Range.Max, vd.Range.Step)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", vd.Name, err)
	}
	v, err := fuzzy.NewVariable(vd.Name, u)
	if err != nil {
		return nil, err
	}
	for _, td := range vd.Terms {
		m, err := buildMembership(td)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", vd.Name, err)
		}
		if err := v.AddTerm(td.Name, m); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func buildMembership(td TermDef) (fuzzy.Membership, error) {
	switch td.Shape {
	case "trapezoid":
		if len(td.Points) != 4 {
			return fuzzy.Membership{}, fmt.Errorf("term %q: trapezoid needs 4 points, got %d", td.Name, len(td.Points))
		}
		return fuzzy.Trapezoid(td.Points[0], td.Points[1], td.Points[2], td.Points[3])
	case "triangle":
		if len(td.Points) != 3 {
			return fuzzy.Membership{}, fmt.Errorf("term %q: triangle needs 3 points, got %d", td.Name, len(td.Points))
		}
		return fuzzy.Triangle(td.Points[0], td.Points[1], td.Points[2])
	default:
		return fuzzy.Membership{}, fmt.Errorf("term %q: unknown shape %q", td.Name, td.Shape)
	}
}

// expr converts an antecedent node tree to a fuzzy expression.
func (n Node) expr() (fuzzy.Expr, error) {
	set := 0
	if n.Term != nil {
		set++
	}
	if len(n.All) > 0 {
		set++
	}
	if len(n.Any) > 0 {
		set++
	}
	if n.Not != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("antecedent node must set exactly one of term/all/any/not")
	}

	switch {
	case n.Term != nil:
		if n.Term.Variable == "" || n.Term.Is == "" {
			return nil, fmt.Errorf("term node needs both variable and is")
		}
		return fuzzy.Term(n.Term.Variable, n.Term.Is), nil
	case len(n.All) > 0:
		children, err := childExprs(n.All)
		if err != nil {
			return nil, err
		}
		return fuzzy.AllOf(children...), nil
	case len(n.Any) > 0:
		children, err := childExprs(n.Any)
		if err != nil {
			return nil, err
		}
		return fuzzy.AnyOf(children...), nil
	default:
		inner, err := n.Not.expr()
		if err != nil {
			return nil, err
		}
		return fuzzy.Not(inner), nil
	}
}

func childExprs(nodes []Node) ([]fuzzy.Expr, error) {
	out := make([]fuzzy.Expr, 0, len(nodes))
	for _, c := range nodes {
		e, err := c.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
