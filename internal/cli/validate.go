package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/irrigo/internal/irrigation"
	"github.com/Dicklesworthstone/irrigo/internal/ruleset"
	"github.com/Dicklesworthstone/irrigo/internal/tui/theme"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <ruleset.yaml>",
		Short: "Check a rule base file",
		Long: `Parse and build a YAML rule base, reporting the first problem found:
unknown fields, malformed membership functions, rules referencing undeclared
variables or terms, and so on.

Also reports whether the rule base satisfies the irrigation controller
contract (soil_moisture, temperature and air_humidity in, watering_minutes
out); a rule base can be valid without it, but irrigo's controller commands
require it.

Examples:
  irrigo validate my-rules.yaml
  irrigo validate my-rules.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

type validateResult struct {
	Path       string `json:"path"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
	Variables  int    `json:"variables,omitempty"`
	Rules      int    `json:"rules,omitempty"`
	Irrigation bool   `json:"irrigation_contract,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	res := validateResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := ruleset.Parse(data)
	if err == nil {
		e, buildErr := doc.Build()
		err = buildErr
		if err == nil {
			res.Valid = true
			res.Variables = len(e.Inputs()) + len(e.Outputs())
			res.Rules = len(e.Rules())
			_, contractErr := irrigation.New(e)
			res.Irrigation = contractErr == nil
		}
	}
	if err != nil {
		res.Error = err.Error()
	}

	if IsJSONOutput() {
		if jerr := printJSON(cmd.OutOrStdout(), res); jerr != nil {
			return jerr
		}
		if !res.Valid {
			return fmt.Errorf("rule base is invalid")
		}
		return nil
	}

	out := cmd.OutOrStdout()
	th := theme.Current()
	if !res.Valid {
		fmt.Fprintf(out, "%s %s\n",
			lipgloss.NewStyle().Bold(true).Foreground(th.Bad).Render("invalid:"),
			res.Error)
		return fmt.Errorf("rule base is invalid")
	}

	fmt.Fprintf(out, "%s %d variables, %d rules\n",
		lipgloss.NewStyle().Bold(true).Foreground(th.Good).Render("valid:"),
		res.Variables, res.Rules)
	if !res.Irrigation {
		fmt.Fprintf(out, "%s\n", lipgloss.NewStyle().Foreground(th.Warn).Render(
			"note: does not satisfy the irrigation controller contract"))
	}
	return nil
}
