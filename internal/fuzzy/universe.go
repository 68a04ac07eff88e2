package fuzzy

import "math"

// Universe is a finite, ordered discretization of a continuous domain:
// sample points from Min to Max at a fixed Step. It is immutable; the slice
// returned by Points must not be modified.
type Universe struct {
	min, max, step float64
	points         []float64
}

// NewUniverse builds a universe spanning [min, max] sampled every step.
// The last sample is always max, even when max-min is not a whole multiple
// of step. A universe needs at least two samples.
func NewUniverse(min, max, step float64) (Universe, error) {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsNaN(step) ||
		math.IsInf(min, 0) || math.IsInf(max, 0) || math.IsInf(step, 0) {
		return Universe{}, configErrorf("universe bounds must be finite (min=%v max=%v step=%v)", min, max, step)
	}
	if max <= min {
		return Universe{}, configErrorf("universe max %v must exceed min %v", max, min)
	}
	if step <= 0 {
		return Universe{}, configErrorf("universe step %v must be positive", step)
	}

	n := int(math.Floor((max-min)/step)) + 1
	points := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		points = append(points, min+float64(i)*step)
	}
	// Close the interval so membership plateaus touching max are sampled.
	if points[len(points)-1] < max {
		points = append(points, max)
	}
	if len(points) < 2 {
		return Universe{}, configErrorf("universe [%v, %v] step %v yields fewer than 2 samples", min, max, step)
	}

	return Universe{min: min, max: max, step: step, points: points}, nil
}

// Min returns the lower bound.
func (u Universe) Min() float64 { return u.min }

// Max returns the upper bound.
func (u Universe) Max() float64 { return u.max }

// Step returns the sampling interval.
func (u Universe) Step() float64 { return u.step }

// Len returns the number of sample points.
func (u Universe) Len() int { return len(u.points) }

// Points returns the sample points in increasing order. Read-only.
func (u Universe) Points() []float64 { return u.points }

// Midpoint returns the center of the domain, used as the defuzzification
// fallback when no rule fires.
func (u Universe) Midpoint() float64 { return (u.min + u.max) / 2 }

// Clamp pins x to [Min, Max]. Sensor noise may transiently leave the nominal
// range; out-of-range crisp values are clamped rather than rejected.
func (u Universe) Clamp(x float64) float64 {
	switch {
	case x < u.min:
		return u.min
	case x > u.max:
		return u.max
	default:
		return x
	}
}

// Contains reports whether [lo, hi] lies within the universe bounds.
func (u Universe) Contains(lo, hi float64) bool {
	return lo >= u.min && hi <= u.max
}
