// Package theme provides the terminal color themes for irrigo's CLI and TUI
// output: Catppuccin Latte for light backgrounds and Mocha for dark ones,
// selected automatically unless IRRIGO_THEME forces one.
package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the palette used by styled output.
type Theme struct {
	Base    lipgloss.Color // default foreground
	Subtle  lipgloss.Color // secondary text
	Accent  lipgloss.Color // highlights, headings
	Good    lipgloss.Color // healthy values
	Warn    lipgloss.Color // values needing attention
	Bad     lipgloss.Color // alarming values
	Surface lipgloss.Color // panel borders, separators
}

// CatppuccinLatte is the light-background palette.
var CatppuccinLatte = Theme{
	Base:    lipgloss.Color("#4c4f69"),
	Subtle:  lipgloss.Color("#6c6f85"),
	Accent:  lipgloss.Color("#1e66f5"),
	Good:    lipgloss.Color("#40a02b"),
	Warn:    lipgloss.Color("#df8e1d"),
	Bad:     lipgloss.Color("#d20f39"),
	Surface: lipgloss.Color("#bcc0cc"),
}

// CatppuccinMocha is the dark-background palette.
var CatppuccinMocha = Theme{
	Base:    lipgloss.Color("#cdd6f4"),
	Subtle:  lipgloss.Color("#a6adc8"),
	Accent:  lipgloss.Color("#89b4fa"),
	Good:    lipgloss.Color("#a6e3a1"),
	Warn:    lipgloss.Color("#f9e2af"),
	Bad:     lipgloss.Color("#f38ba8"),
	Surface: lipgloss.Color("#45475a"),
}

// detectDarkBackground is swappable for tests.
var detectDarkBackground = func() bool {
	return termenv.HasDarkBackground()
}

// Current resolves the active theme. IRRIGO_THEME accepts "latte", "mocha"
// or "auto" (the default): auto probes the terminal background.
func Current() Theme {
	switch strings.ToLower(os.Getenv("IRRIGO_THEME")) {
	case "latte", "light":
		return CatppuccinLatte
	case "mocha", "dark":
		return CatppuccinMocha
	}
	if detectDarkBackground() {
		return CatppuccinMocha
	}
	return CatppuccinLatte
}
