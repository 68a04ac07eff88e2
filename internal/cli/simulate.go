package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/irrigo/internal/history"
	"github.com/Dicklesworthstone/irrigo/internal/irrigation"
	"github.com/Dicklesworthstone/irrigo/internal/simenv"
	"github.com/Dicklesworthstone/irrigo/internal/tui/dashboard"
	"github.com/Dicklesworthstone/irrigo/internal/tui/theme"
)

var (
	simSteps    int
	simSeed     int64
	simInterval int
	simTUI      bool
	simRecord   bool
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the controller against a synthetic environment",
		Long: `Step a synthetic garden through simulated hours: temperature swings with
the time of day, humidity moves inversely, soil dries out, and every watering
decision is fed back into the soil.

Equal seeds produce identical runs. With --tui the run renders as a live
dashboard instead of printed lines.

Examples:
  irrigo simulate                       # One simulated day, printed
  irrigo simulate --steps 48 --seed 7   # Two days, reproducible
  irrigo simulate --tui                 # Live dashboard
  irrigo simulate --record              # Log decisions to the history db
  irrigo simulate --interval 0 --json   # Machine-readable, flat out`,
		RunE: runSimulate,
	}

	cmd.Flags().IntVar(&simSteps, "steps", 0, "Simulated hours (default from config)")
	cmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (default from config)")
	cmd.Flags().IntVar(&simInterval, "interval", -1, "Pause between steps in ms (default from config)")
	cmd.Flags().BoolVar(&simTUI, "tui", false, "Render as a live dashboard")
	cmd.Flags().BoolVar(&simRecord, "record", false, "Record decisions to the history database")

	return cmd
}

// simStep is one printed line of a simulation run.
type simStep struct {
	Hour      int                `json:"hour"`
	Reading   irrigation.Reading `json:"reading"`
	Minutes   float64            `json:"minutes"`
	Defaulted bool               `json:"defaulted,omitempty"`
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl, err := loadController(cfg)
	if err != nil {
		return err
	}

	steps := cfg.Simulation.Steps
	if simSteps > 0 {
		steps = simSteps
	}
	seed := cfg.Simulation.Seed
	if cmd.Flags().Changed("seed") {
		seed = simSeed
	}
	intervalMS := cfg.Simulation.IntervalMS
	if simInterval >= 0 {
		intervalMS = simInterval
	}
	interval := time.Duration(intervalMS) * time.Millisecond

	var store *history.Store
	if simRecord {
		if cfg.HistoryDB == "" {
			return fmt.Errorf("--record requires history_db in the config or IRRIGO_HISTORY_DB")
		}
		store, err = history.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	if simTUI {
		if interval <= 0 {
			interval = time.Millisecond
		}
		return dashboard.Run(ctrl, steps, seed, interval, store)
	}

	out := cmd.OutOrStdout()
	th := theme.Current()
	subtle := lipgloss.NewStyle().Foreground(th.Subtle)
	strong := lipgloss.NewStyle().Bold(true).Foreground(th.Accent)

	stepper := simenv.New(simenv.DefaultStart(), seed)
	var results []simStep
	for i := 0; i < steps; i++ {
		reading := stepper.Step()
		decision, err := ctrl.Recommend(reading)
		if err != nil {
			return err
		}
		stepper.ApplyWatering(decision.Minutes)

		if store != nil {
			if _, err := store.Record(history.Entry{
				SoilMoisture: reading.SoilMoisture,
				Temperature:  reading.Temperature,
				AirHumidity:  reading.AirHumidity,
				Minutes:      decision.Minutes,
				Defaulted:    decision.Defaulted,
				Source:       "sim",
			}); err != nil {
				return err
			}
		}

		if IsJSONOutput() {
			results = append(results, simStep{
				Hour:      stepper.Hour(),
				Reading:   reading,
				Minutes:   decision.Minutes,
				Defaulted: decision.Defaulted,
			})
		} else {
			fmt.Fprintf(out, "%s %s %s\n",
				subtle.Render(fmt.Sprintf("h%-3d", stepper.Hour())),
				fmt.Sprintf("soil %5.1f%%  temp %5.1f°C  hum %5.1f%%",
					reading.SoilMoisture, reading.Temperature, reading.AirHumidity),
				strong.Render(fmt.Sprintf("→ %4.1f min", decision.Minutes)))
		}

		if interval > 0 && i < steps-1 {
			time.Sleep(interval)
		}
	}

	if IsJSONOutput() {
		return printJSON(out, results)
	}
	return nil
}
