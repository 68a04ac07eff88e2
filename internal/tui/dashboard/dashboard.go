// Package dashboard is the live simulation view: a bubbletea program that
// steps the synthetic environment, runs each reading through the controller,
// and renders sensor gauges plus the watering recommendation.
package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/irrigo/internal/history"
	"github.com/Dicklesworthstone/irrigo/internal/irrigation"
	"github.com/Dicklesworthstone/irrigo/internal/simenv"
	"github.com/Dicklesworthstone/irrigo/internal/tui/theme"
)

type tickMsg time.Time

// logLine is one completed simulation step shown in the history strip.
type logLine struct {
	hour    int
	reading irrigation.Reading
	minutes float64
}

const maxLogLines = 6

// Model drives the simulation dashboard. Construct with New; the zero value
// is not usable.
type Model struct {
	controller *irrigation.Controller
	stepper    *simenv.Stepper
	store      *history.Store

	steps    int
	interval time.Duration

	theme  theme.Theme
	gauge  progress.Model
	width  int
	height int

	reading  irrigation.Reading
	decision irrigation.Decision
	log      []logLine
	done     bool
	err      error
}

// New builds a dashboard over the controller. store may be nil; when set,
// every step's decision is recorded with source "sim".
func New(ctrl *irrigation.Controller, steps int, seed int64, interval time.Duration, store *history.Store) Model {
	th := theme.Current()
	gauge := progress.New(
		progress.WithSolidFill(string(th.Accent)),
		progress.WithoutPercentage(),
	)
	gauge.Width = 30

	return Model{
		controller: ctrl,
		stepper:    simenv.New(simenv.DefaultStart(), seed),
		store:      store,
		steps:      steps,
		interval:   interval,
		theme:      th,
		gauge:      gauge,
		width:      80,
		reading:    simenv.DefaultStart(),
	}
}

// Err reports a compute failure that ended the run early.
func (m Model) Err() error { return m.err }

// Done reports whether the run completed all its steps.
func (m Model) Done() bool { return m.done }

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.gauge.Width = min(40, max(10, msg.Width-30))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		if m.done {
			return m, tea.Quit
		}
		return m.step()
	}
	return m, nil
}

// step advances the environment one hour and computes a decision.
func (m Model) step() (tea.Model, tea.Cmd) {
	m.reading = m.stepper.Step()

	decision, err := m.controller.Recommend(m.reading)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.decision = decision
	m.stepper.ApplyWatering(decision.Minutes)

	if m.store != nil {
		_, _ = m.store.Record(history.Entry{
			SoilMoisture: m.reading.SoilMoisture,
			Temperature:  m.reading.Temperature,
			AirHumidity:  m.reading.AirHumidity,
			Minutes:      decision.Minutes,
			Defaulted:    decision.Defaulted,
			Source:       "sim",
		})
	}

	m.log = append(m.log, logLine{hour: m.stepper.Hour(), reading: m.reading, minutes: decision.Minutes})
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}

	if m.stepper.Hour() >= m.steps {
		m.done = true
		return m, tea.Quit
	}
	return m, m.tick()
}

func (m Model) View() string {
	th := m.theme
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(th.Accent)
	labelStyle := lipgloss.NewStyle().Foreground(th.Base)
	subtleStyle := lipgloss.NewStyle().Foreground(th.Subtle)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n",
		titleStyle.Render("irrigo simulation"),
		subtleStyle.Render(fmt.Sprintf("hour %d/%d", m.stepper.Hour(), m.steps)))

	b.WriteString(m.sensorLine(labelStyle, "soil moisture", m.reading.SoilMoisture, 100, "%"))
	b.WriteString(m.sensorLine(labelStyle, "temperature", m.reading.Temperature, 45, "°C"))
	b.WriteString(m.sensorLine(labelStyle, "air humidity", m.reading.AirHumidity, 100, "%"))
	b.WriteString("\n")

	b.WriteString(m.recommendationLine())
	b.WriteString(m.firedLines(subtleStyle))

	if len(m.log) > 0 {
		b.WriteString("\n" + subtleStyle.Render("recent steps") + "\n")
		for _, l := range m.log {
			fmt.Fprintf(&b, "%s\n", subtleStyle.Render(fmt.Sprintf(
				"  h%-3d soil %5.1f  temp %5.1f  hum %5.1f  → %4.1f min",
				l.hour, l.reading.SoilMoisture, l.reading.Temperature, l.reading.AirHumidity, l.minutes)))
		}
	}

	if m.done {
		b.WriteString("\n" + subtleStyle.Render("simulation complete — press q to exit") + "\n")
	} else {
		b.WriteString("\n" + subtleStyle.Render("press q to quit") + "\n")
	}
	return b.String()
}

func (m Model) sensorLine(label lipgloss.Style, name string, value, scale float64, unit string) string {
	frac := value / scale
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return fmt.Sprintf("%s %s %s\n",
		label.Render(runewidth.FillRight(name, 14)),
		m.gauge.ViewAs(frac),
		label.Render(fmt.Sprintf("%6.1f%s", value, unit)))
}

func (m Model) recommendationLine() string {
	th := m.theme
	color := th.Good
	switch {
	case m.decision.Minutes > 35:
		color = th.Bad
	case m.decision.Minutes > 15:
		color = th.Warn
	}
	style := lipgloss.NewStyle().Bold(true).Foreground(color)

	text := fmt.Sprintf("water %.1f min", m.decision.Minutes)
	if m.decision.Defaulted {
		text = "no rule fired — defaulting to no action"
		style = lipgloss.NewStyle().Foreground(th.Subtle)
	}
	return fmt.Sprintf("%s %s\n",
		lipgloss.NewStyle().Foreground(th.Base).Render(runewidth.FillRight("recommendation", 14)),
		style.Render(text))
}

// firedLines lists the strongest rule activations for the current reading.
func (m Model) firedLines(subtle lipgloss.Style) string {
	fired := make([]irrigation.Activation, 0, len(m.decision.Fired))
	for _, f := range m.decision.Fired {
		if f.Strength > 0 {
			fired = append(fired, f)
		}
	}
	sort.SliceStable(fired, func(i, j int) bool { return fired[i].Strength > fired[j].Strength })
	if len(fired) > 3 {
		fired = fired[:3]
	}

	var b strings.Builder
	for _, f := range fired {
		fmt.Fprintf(&b, "%s\n", subtle.Render(fmt.Sprintf("  %-16s %.2f", f.Label, f.Strength)))
	}
	return b.String()
}

// Run executes the dashboard to completion.
func Run(ctrl *irrigation.Controller, steps int, seed int64, interval time.Duration, store *history.Store) error {
	m := New(ctrl, steps, seed, interval, store)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
