package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/irrigo/internal/history"
	"github.com/Dicklesworthstone/irrigo/internal/irrigation"
	"github.com/Dicklesworthstone/irrigo/internal/tui/theme"
)

var (
	computeSoil     float64
	computeTemp     float64
	computeHumidity float64
	computeRecord   bool
)

func newComputeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a watering recommendation for one sensor reading",
		Long: `Run one inference cycle: fuzzify the three sensor readings, fire the rule
base, and defuzzify the aggregated output into watering minutes.

Out-of-range readings are clamped to the sensor universe before fuzzification.
If no rule fires at all, the recommendation defaults to the midpoint of the
output range and is flagged as defaulted.

Examples:
  irrigo compute --soil 25 --temp 35 --humidity 30
  irrigo compute --soil 80 --temp 20 --humidity 50 --json
  irrigo compute --soil 40 --temp 28 --humidity 45 --record`,
		RunE: runCompute,
	}

	cmd.Flags().Float64Var(&computeSoil, "soil", 0, "Soil moisture percent (0-100)")
	cmd.Flags().Float64Var(&computeTemp, "temp", 0, "Temperature in degrees C (0-45)")
	cmd.Flags().Float64Var(&computeHumidity, "humidity", 0, "Air humidity percent (0-100)")
	cmd.Flags().BoolVar(&computeRecord, "record", false, "Record the decision to the history database")
	_ = cmd.MarkFlagRequired("soil")
	_ = cmd.MarkFlagRequired("temp")
	_ = cmd.MarkFlagRequired("humidity")

	return cmd
}

func runCompute(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl, err := loadController(cfg)
	if err != nil {
		return err
	}

	reading := irrigation.Reading{
		SoilMoisture: computeSoil,
		Temperature:  computeTemp,
		AirHumidity:  computeHumidity,
	}
	decision, err := ctrl.Recommend(reading)
	if err != nil {
		return err
	}

	if computeRecord {
		if cfg.HistoryDB == "" {
			return fmt.Errorf("--record requires history_db in the config or IRRIGO_HISTORY_DB")
		}
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.Record(history.Entry{
			SoilMoisture: reading.SoilMoisture,
			Temperature:  reading.Temperature,
			AirHumidity:  reading.AirHumidity,
			Minutes:      decision.Minutes,
			Defaulted:    decision.Defaulted,
			Source:       "cli",
		}); err != nil {
			return err
		}
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), struct {
			Reading  irrigation.Reading  `json:"reading"`
			Decision irrigation.Decision `json:"decision"`
		}{reading, decision})
	}

	out := cmd.OutOrStdout()
	th := theme.Current()
	label := lipgloss.NewStyle().Foreground(th.Subtle)
	value := lipgloss.NewStyle().Bold(true).Foreground(th.Accent)

	fmt.Fprintf(out, "%s %s\n", label.Render("reading:"), fmt.Sprintf(
		"soil %.1f%%  temp %.1f°C  humidity %.1f%%",
		reading.SoilMoisture, reading.Temperature, reading.AirHumidity))
	if decision.Defaulted {
		fmt.Fprintf(out, "%s %s\n", label.Render("result: "),
			lipgloss.NewStyle().Foreground(th.Warn).Render(
				fmt.Sprintf("no rule fired — defaulting to %.1f min (treat as no action)", decision.Minutes)))
	} else {
		fmt.Fprintf(out, "%s %s\n", label.Render("water:  "),
			value.Render(fmt.Sprintf("%.1f minutes", decision.Minutes)))
	}

	for _, f := range decision.Fired {
		if f.Strength == 0 {
			continue
		}
		fmt.Fprintf(out, "  %s\n", label.Render(fmt.Sprintf("%-16s %.2f", f.Label, f.Strength)))
	}
	return nil
}
