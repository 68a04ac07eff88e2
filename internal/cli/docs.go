package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/irrigo/internal/fuzzy"
)

func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Render the rule base as readable documentation",
		Long: `Generate markdown documentation for the active rule base: every variable
with its universe and terms, and every rule in IF/THEN form. On a terminal the
markdown is rendered; when piped, raw markdown is emitted.

Examples:
  irrigo docs
  irrigo docs --ruleset my-rules.yaml
  irrigo docs > RULES.md`,
		RunE: runDocs,
	}
}

// rulebaseMarkdown builds the document from the engine itself, so it always
// matches what will actually run.
func rulebaseMarkdown(engine *fuzzy.Engine) string {
	var b strings.Builder
	b.WriteString("# Rule base\n\n")

	writeVars := func(heading string, names []string, lookup func(string) (*fuzzy.Variable, bool)) {
		fmt.Fprintf(&b, "## %s\n\n", heading)
		for _, name := range names {
			v, _ := lookup(name)
			u := v.Universe()
			fmt.Fprintf(&b, "### %s\n\nUniverse: %g to %g, step %g.\n\n", name, u.Min(), u.Max(), u.Step())
			b.WriteString("| Term | Shape | Breakpoints |\n|---|---|---|\n")
			for _, term := range v.Terms() {
				m, _ := v.Term(term)
				a, bp, c, d := m.Breakpoints()
				if m.IsTriangle() {
					fmt.Fprintf(&b, "| %s | triangle | %g, %g, %g |\n", term, a, bp, d)
				} else {
					fmt.Fprintf(&b, "| %s | trapezoid | %g, %g, %g, %g |\n", term, a, bp, c, d)
				}
			}
			b.WriteString("\n")
		}
	}
	writeVars("Inputs", engine.Inputs(), engine.InputVariable)
	writeVars("Outputs", engine.Outputs(), engine.OutputVariable)

	b.WriteString("## Rules\n\n")
	for _, r := range engine.Rules() {
		fmt.Fprintf(&b, "- **%s**: %s\n", r.Label, ruleBody(r))
	}
	b.WriteString("\n")
	return b.String()
}

// ruleBody strips the label prefix from Rule.String for cleaner listing.
func ruleBody(r fuzzy.Rule) string {
	s := r.String()
	if r.Label != "" {
		s = strings.TrimPrefix(s, r.Label+": ")
	}
	return s
}

func runDocs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl, err := loadController(cfg)
	if err != nil {
		return err
	}

	md := rulebaseMarkdown(ctrl.Engine())
	out := cmd.OutOrStdout()

	stdout, isFile := out.(*os.File)
	if !isFile || !isatty.IsTerminal(stdout.Fd()) {
		fmt.Fprint(out, wordwrap.String(md, 100))
		return nil
	}

	width := 100
	if w, _, err := term.GetSize(int(stdout.Fd())); err == nil && w > 0 {
		width = min(w, 100)
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return err
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return err
	}
	fmt.Fprint(out, rendered)
	return nil
}
