package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Listen == "" {
		t.Error("default Listen should not be empty")
	}
	if cfg.Theme != "auto" {
		t.Errorf("default Theme = %q, want auto", cfg.Theme)
	}
	if cfg.Simulation.Steps != 24 {
		t.Errorf("default Steps = %d, want 24", cfg.Simulation.Steps)
	}
	if cfg.Ruleset != "" {
		t.Errorf("default Ruleset = %q, want embedded (empty)", cfg.Ruleset)
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Listen != Default().Listen {
		t.Errorf("Listen = %q, want default %q", cfg.Listen, Default().Listen)
	}
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
ruleset = "/etc/irrigo/rules.yaml"
listen = "0.0.0.0:9000"
theme = "mocha"

[simulation]
steps = 48
seed = 99
interval_ms = 0
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Ruleset != "/etc/irrigo/rules.yaml" {
		t.Errorf("Ruleset = %q", cfg.Ruleset)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Simulation.Steps != 48 || cfg.Simulation.Seed != 99 {
		t.Errorf("Simulation = %+v", cfg.Simulation)
	}
}

func TestLoadFrom_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("listen = unquoted"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom should fail on malformed TOML")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("IRRIGO_RULESET", "/tmp/override.yaml")
	t.Setenv("IRRIGO_LISTEN", "127.0.0.1:1234")
	t.Setenv("IRRIGO_SIM_SEED", "77")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Ruleset != "/tmp/override.yaml" {
		t.Errorf("Ruleset = %q, want env override", cfg.Ruleset)
	}
	if cfg.Listen != "127.0.0.1:1234" {
		t.Errorf("Listen = %q, want env override", cfg.Listen)
	}
	if cfg.Simulation.Seed != 77 {
		t.Errorf("Seed = %d, want 77", cfg.Simulation.Seed)
	}
}

func TestPath_EnvOverride(t *testing.T) {
	t.Setenv("IRRIGO_CONFIG", "/tmp/irrigo-test.toml")
	if got := Path(); got != "/tmp/irrigo-test.toml" {
		t.Errorf("Path() = %q, want env override", got)
	}
}
