// Package simenv manufactures synthetic sensor drift for demonstrations and
// tests: a diurnal temperature swing, air humidity moving inversely to it,
// and soil drying out as a function of both. The random source is injected
// via a seed so runs are reproducible.
package simenv

import (
	"math/rand"

	"github.com/Dicklesworthstone/irrigo/internal/irrigation"
)

// Physical clamps for the simulated environment, matching the demo scenario:
// a sheltered bed that never fully freezes, bakes, or floods.
const (
	minTemperature = 5
	maxTemperature = 40
	minHumidity    = 20
	maxHumidity    = 95
	minSoil        = 10
	maxSoil        = 90
)

// soilGainPerMinute is how much one minute of watering raises soil moisture
// in the simulation. Arbitrary but stable, so feedback tests are exact.
const soilGainPerMinute = 1.5

// DefaultStart is the canonical starting conditions for a demo run.
func DefaultStart() irrigation.Reading {
	return irrigation.Reading{SoilMoisture: 60, Temperature: 18, AirHumidity: 50}
}

// Stepper evolves environment conditions one "hour" at a time. Not safe for
// concurrent use; create one per simulation run.
type Stepper struct {
	rng  *rand.Rand
	hour int
	cond irrigation.Reading
}

// New creates a stepper from starting conditions and a seed. Equal seeds and
// starts produce identical runs.
func New(start irrigation.Reading, seed int64) *Stepper {
	return &Stepper{
		rng:  rand.New(rand.NewSource(seed)),
		cond: start,
	}
}

// Conditions returns the current environment state.
func (s *Stepper) Conditions() irrigation.Reading { return s.cond }

// Hour returns the number of completed steps.
func (s *Stepper) Hour() int { return s.hour }

// Step advances the environment by one hour and returns the new conditions.
// Temperature rises through the simulated day and falls at night; humidity
// moves the other way; soil dries faster when it is hot and the air is dry.
func (s *Stepper) Step() irrigation.Reading {
	s.hour++

	phase := float64(10 - s.hour%24)

	s.cond.Temperature += phase*0.5 + s.uniform(-1, 1)
	s.cond.Temperature = clamp(s.cond.Temperature, minTemperature, maxTemperature)

	s.cond.AirHumidity -= phase*0.3 + s.uniform(-2, 2)
	s.cond.AirHumidity = clamp(s.cond.AirHumidity, minHumidity, maxHumidity)

	drying := s.cond.Temperature/10 + (1 - s.cond.AirHumidity/100)
	s.cond.SoilMoisture -= drying + s.uniform(0, 1)
	s.cond.SoilMoisture = clamp(s.cond.SoilMoisture, minSoil, maxSoil)

	return s.cond
}

// ApplyWatering feeds a watering decision back into the soil. Durations of a
// minute or less are treated as "no action" and change nothing.
func (s *Stepper) ApplyWatering(minutes float64) {
	if minutes <= 1 {
		return
	}
	s.cond.SoilMoisture = clamp(s.cond.SoilMoisture+minutes*soilGainPerMinute, minSoil, maxSoil)
}

func (s *Stepper) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
