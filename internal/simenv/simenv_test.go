package simenv

import (
	"testing"

	"github.com/Dicklesworthstone/irrigo/internal/irrigation"
)

func TestStepper_DeterministicUnderSeed(t *testing.T) {
	t.Parallel()

	run := func() []irrigation.Reading {
		s := New(DefaultStart(), 42)
		out := make([]irrigation.Reading, 0, 24)
		for i := 0; i < 24; i++ {
			out = append(out, s.Step())
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("step %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestStepper_DifferentSeedsDiverge(t *testing.T) {
	t.Parallel()

	a := New(DefaultStart(), 1)
	b := New(DefaultStart(), 2)

	same := true
	for i := 0; i < 5; i++ {
		if a.Step() != b.Step() {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical drift")
	}
}

func TestStepper_StaysWithinPhysicalBounds(t *testing.T) {
	t.Parallel()

	s := New(DefaultStart(), 7)
	for i := 0; i < 500; i++ {
		c := s.Step()
		if c.Temperature < minTemperature || c.Temperature > maxTemperature {
			t.Fatalf("step %d: temperature %v out of [%v, %v]", i, c.Temperature, minTemperature, maxTemperature)
		}
		if c.AirHumidity < minHumidity || c.AirHumidity > maxHumidity {
			t.Fatalf("step %d: humidity %v out of [%v, %v]", i, c.AirHumidity, minHumidity, maxHumidity)
		}
		if c.SoilMoisture < minSoil || c.SoilMoisture > maxSoil {
			t.Fatalf("step %d: soil %v out of [%v, %v]", i, c.SoilMoisture, minSoil, maxSoil)
		}
	}
}

func TestApplyWatering(t *testing.T) {
	t.Parallel()

	s := New(irrigation.Reading{SoilMoisture: 40, Temperature: 20, AirHumidity: 50}, 0)

	s.ApplyWatering(10)
	if got := s.Conditions().SoilMoisture; got != 55 {
		t.Errorf("soil after 10 min = %v, want 55", got)
	}

	// Sub-minute recommendations are "no action".
	s.ApplyWatering(0.5)
	if got := s.Conditions().SoilMoisture; got != 55 {
		t.Errorf("soil after 0.5 min = %v, want unchanged 55", got)
	}

	// Saturation clamps at the physical maximum.
	s.ApplyWatering(60)
	if got := s.Conditions().SoilMoisture; got != maxSoil {
		t.Errorf("soil after 60 min = %v, want clamp at %v", got, maxSoil)
	}
}

func TestStepper_HourAdvances(t *testing.T) {
	t.Parallel()

	s := New(DefaultStart(), 3)
	if s.Hour() != 0 {
		t.Fatalf("Hour() = %d before stepping", s.Hour())
	}
	s.Step()
	s.Step()
	if s.Hour() != 2 {
		t.Errorf("Hour() = %d, want 2", s.Hour())
	}
}
