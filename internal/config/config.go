// Package config loads irrigo's controller configuration: where the rule
// base lives, where decisions are logged, how the server listens and how demo
// simulations run. Configuration is read once at startup from a TOML file in
// the user config dir, with environment overrides for the common knobs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the full configuration surface. Zero values defer to Default.
type Config struct {
	// Ruleset is the path to a YAML rule base. Empty means the embedded
	// default irrigation rule base.
	Ruleset string `toml:"ruleset"`

	// HistoryDB is the SQLite decision log path. Empty disables recording.
	HistoryDB string `toml:"history_db"`

	// Listen is the HTTP server address for `irrigo serve`.
	Listen string `toml:"listen"`

	// Theme picks the terminal theme: "auto", "latte" or "mocha".
	Theme string `toml:"theme"`

	Simulation SimulationConfig `toml:"simulation"`
}

// SimulationConfig controls `irrigo simulate` defaults.
type SimulationConfig struct {
	// Steps is the number of simulated hours.
	Steps int `toml:"steps"`

	// Seed drives the synthetic drift. Runs with equal seeds are identical.
	Seed int64 `toml:"seed"`

	// IntervalMS is the pause between printed steps, in milliseconds.
	// Zero runs flat out (useful in tests and pipelines).
	IntervalMS int `toml:"interval_ms"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Listen: "127.0.0.1:8530",
		Theme:  "auto",
		Simulation: SimulationConfig{
			Steps:      24,
			Seed:       1,
			IntervalMS: 500,
		},
	}
}

// Path returns the config file location: $IRRIGO_CONFIG if set, otherwise
// irrigo/config.toml under the user config dir.
func Path() string {
	if p := os.Getenv("IRRIGO_CONFIG"); p != "" {
		return p
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "irrigo", "config.toml")
}

// Load builds the effective configuration: defaults, then the config file if
// present, then environment overrides. A missing file is not an error; a
// malformed one is.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom is Load with an explicit file path, for --config overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("IRRIGO_RULESET"); v != "" {
		cfg.Ruleset = v
	}
	if v := os.Getenv("IRRIGO_HISTORY_DB"); v != "" {
		cfg.HistoryDB = v
	}
	if v := os.Getenv("IRRIGO_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("IRRIGO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("IRRIGO_SIM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Simulation.Seed = seed
		}
	}
}
