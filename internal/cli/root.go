// Package cli wires irrigo's commands: one-shot computation, the demo
// simulation, the HTTP server, rule base validation and inspection.
package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/irrigo/internal/config"
	"github.com/Dicklesworthstone/irrigo/internal/irrigation"
)

var (
	jsonOutput  bool
	configFlag  string
	rulesetFlag string
)

// NewRootCmd builds the irrigo command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "irrigo",
		Short: "Fuzzy-logic irrigation controller",
		Long: `irrigo decides how long to water based on soil moisture, temperature and
air humidity, using a Mamdani fuzzy inference engine over a YAML rule base.

Without --ruleset it uses the built-in irrigation rule base.

Examples:
  irrigo compute --soil 25 --temp 35 --humidity 30   # One-shot recommendation
  irrigo simulate --steps 24 --seed 7                # Synthetic day, printed
  irrigo simulate --tui                              # Live dashboard
  irrigo serve --listen 127.0.0.1:8530               # HTTP API with hot reload
  irrigo validate my-rules.yaml                      # Check a rule base
  irrigo vars                                        # Show variables and terms
  irrigo docs                                        # Render the rule base`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	root.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: user config dir)")
	root.PersistentFlags().StringVar(&rulesetFlag, "ruleset", "", "Rule base YAML file (default: embedded rule base)")

	root.AddCommand(
		newComputeCmd(),
		newSimulateCmd(),
		newServeCmd(),
		newValidateCmd(),
		newVarsCmd(),
		newDocsCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// IsJSONOutput reports whether --json was passed.
func IsJSONOutput() bool { return jsonOutput }

// loadConfig resolves the effective configuration, honoring --config.
func loadConfig() (*config.Config, error) {
	if configFlag != "" {
		return config.LoadFrom(configFlag)
	}
	return config.Load()
}

// resolveRuleset picks the rule base path: flag first, then config/env, empty
// for the embedded default.
func resolveRuleset(cfg *config.Config) string {
	if rulesetFlag != "" {
		return rulesetFlag
	}
	return cfg.Ruleset
}

// loadController builds the controller from the resolved rule base.
func loadController(cfg *config.Config) (*irrigation.Controller, error) {
	if path := resolveRuleset(cfg); path != "" {
		return irrigation.FromFile(path)
	}
	return irrigation.Default()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
