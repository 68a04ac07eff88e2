// Package irrigation exposes the watering controller: a fixed variable
// contract (three sensors in, watering minutes out) over a fuzzy inference
// engine, with the engine definition supplied by a rule base document.
package irrigation

import (
	"errors"
	"fmt"

	"github.com/Dicklesworthstone/irrigo/internal/fuzzy"
	"github.com/Dicklesworthstone/irrigo/internal/ruleset"
)

// Variable names forming the controller's contract. Any rule base used with
// a Controller must declare exactly these inputs and this output.
const (
	VarSoilMoisture    = "soil_moisture"    // percent, 0-100
	VarTemperature     = "temperature"      // degrees C, 0-45
	VarAirHumidity     = "air_humidity"     // percent, 0-100
	VarWateringMinutes = "watering_minutes" // minutes, 0-60
)

// Reading is one cycle of crisp sensor values.
type Reading struct {
	SoilMoisture float64 `json:"soil_moisture"`
	Temperature  float64 `json:"temperature"`
	AirHumidity  float64 `json:"air_humidity"`
}

// Decision is the controller's crisp output for one reading.
type Decision struct {
	// Minutes is the recommended watering duration. Always finite and
	// within the output universe bounds.
	Minutes float64 `json:"minutes"`

	// Defaulted is true when no rule fired and Minutes is the output
	// universe midpoint rather than a computed centroid. Callers normally
	// treat a defaulted decision as "no action".
	Defaulted bool `json:"defaulted,omitempty"`

	// Fired lists each rule's firing strength, in rule-base order.
	Fired []Activation `json:"fired,omitempty"`
}

// Activation is one rule's firing strength for a reading.
type Activation struct {
	Label    string  `json:"label"`
	Rule     string  `json:"rule"`
	Strength float64 `json:"strength"`
}

// Controller wraps a fuzzy engine that satisfies the irrigation variable
// contract. It is immutable and safe for concurrent use; each Recommend call
// runs on its own simulation context.
type Controller struct {
	engine *fuzzy.Engine
}

// New checks that the engine declares the contract variables and wraps it.
func New(e *fuzzy.Engine) (*Controller, error) {
	for _, name := range []string{VarSoilMoisture, VarTemperature, VarAirHumidity} {
		if _, ok := e.InputVariable(name); !ok {
			return nil, fmt.Errorf("irrigation: engine is missing input variable %q", name)
		}
	}
	if _, ok := e.OutputVariable(VarWateringMinutes); !ok {
		return nil, fmt.Errorf("irrigation: engine is missing output variable %q", VarWateringMinutes)
	}
	return &Controller{engine: e}, nil
}

// Default builds a controller over the embedded default rule base.
func Default() (*Controller, error) {
	e, err := ruleset.Default()
	if err != nil {
		return nil, err
	}
	return New(e)
}

// FromFile builds a controller from a rule base file.
func FromFile(path string) (*Controller, error) {
	e, err := ruleset.LoadEngine(path)
	if err != nil {
		return nil, err
	}
	return New(e)
}

// Engine returns the underlying engine, e.g. for serving variable metadata.
func (c *Controller) Engine() *fuzzy.Engine { return c.engine }

// Recommend runs one Mamdani cycle for the reading. A no-rule-fired cycle is
// not an error: the decision comes back with Defaulted set and Minutes at the
// universe midpoint.
func (c *Controller) Recommend(r Reading) (Decision, error) {
	sim := fuzzy.NewSimulation(c.engine)

	inputs := map[string]float64{
		VarSoilMoisture: r.SoilMoisture,
		VarTemperature:  r.Temperature,
		VarAirHumidity:  r.AirHumidity,
	}
	for name, v := range inputs {
		if err := sim.SetInput(name, v); err != nil {
			return Decision{}, err
		}
	}

	var d Decision
	if err := sim.Compute(); err != nil {
		if !errors.Is(err, fuzzy.ErrNoRuleFired) {
			return Decision{}, err
		}
		d.Defaulted = true
	}

	minutes, err := sim.Output(VarWateringMinutes)
	if err != nil {
		return Decision{}, err
	}
	d.Minutes = minutes

	fired, err := sim.Fired()
	if err != nil {
		return Decision{}, err
	}
	d.Fired = make([]Activation, 0, len(fired))
	for _, f := range fired {
		d.Fired = append(d.Fired, Activation{
			Label:    f.Rule.Label,
			Rule:     f.Rule.String(),
			Strength: f.Strength,
		})
	}

	return d, nil
}
