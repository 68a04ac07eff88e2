package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/irrigo/internal/fuzzy"
	"github.com/Dicklesworthstone/irrigo/internal/tui/theme"
)

func newVarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vars",
		Short: "Show the rule base variables and their terms",
		Long: `List every linguistic variable with its universe and terms, rendering each
term's membership function as a bar across the universe.

Examples:
  irrigo vars
  irrigo vars --ruleset my-rules.yaml
  irrigo vars --json`,
		RunE: runVars,
	}
}

type varTermJSON struct {
	Name   string    `json:"name"`
	Points []float64 `json:"points"`
}

type varJSON struct {
	Name  string        `json:"name"`
	Role  string        `json:"role"`
	Min   float64       `json:"min"`
	Max   float64       `json:"max"`
	Terms []varTermJSON `json:"terms"`
}

const barWidth = 40

// membershipBar samples a term's membership across the universe and renders
// one character per column, taller block for higher degree.
func membershipBar(u fuzzy.Universe, m fuzzy.Membership) string {
	blocks := []rune(" ▁▂▃▄▅▆▇█")

	var b strings.Builder
	span := u.Max() - u.Min()
	for col := 0; col < barWidth; col++ {
		x := u.Min() + span*float64(col)/float64(barWidth-1)
		mu := m.Degree(x)
		idx := int(mu * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

func runVars(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl, err := loadController(cfg)
	if err != nil {
		return err
	}
	engine := ctrl.Engine()

	if IsJSONOutput() {
		var out []varJSON
		collect := func(names []string, role string, lookup func(string) (*fuzzy.Variable, bool)) {
			for _, name := range names {
				v, _ := lookup(name)
				u := v.Universe()
				vj := varJSON{Name: name, Role: role, Min: u.Min(), Max: u.Max()}
				for _, term := range v.Terms() {
					m, _ := v.Term(term)
					a, b, c, d := m.Breakpoints()
					vj.Terms = append(vj.Terms, varTermJSON{Name: term, Points: []float64{a, b, c, d}})
				}
				out = append(out, vj)
			}
		}
		collect(engine.Inputs(), "input", engine.InputVariable)
		collect(engine.Outputs(), "output", engine.OutputVariable)
		return printJSON(cmd.OutOrStdout(), out)
	}

	out := cmd.OutOrStdout()
	th := theme.Current()
	title := lipgloss.NewStyle().Bold(true).Foreground(th.Accent)
	subtle := lipgloss.NewStyle().Foreground(th.Subtle)
	bar := lipgloss.NewStyle().Foreground(th.Good)

	show := func(names []string, role string, lookup func(string) (*fuzzy.Variable, bool)) {
		for _, name := range names {
			v, _ := lookup(name)
			u := v.Universe()
			fmt.Fprintf(out, "%s %s\n",
				title.Render(name),
				subtle.Render(fmt.Sprintf("(%s, %g to %g)", role, u.Min(), u.Max())))
			for _, term := range v.Terms() {
				m, _ := v.Term(term)
				a, b, c, d := m.Breakpoints()
				shape := fmt.Sprintf("trapezoid(%g, %g, %g, %g)", a, b, c, d)
				if m.IsTriangle() {
					shape = fmt.Sprintf("triangle(%g, %g, %g)", a, b, d)
				}
				fmt.Fprintf(out, "  %s %s %s\n",
					runewidth.FillRight(term, 10),
					bar.Render(membershipBar(u, m)),
					subtle.Render(shape))
			}
			fmt.Fprintln(out)
		}
	}
	show(engine.Inputs(), "input", engine.InputVariable)
	show(engine.Outputs(), "output", engine.OutputVariable)
	return nil
}
