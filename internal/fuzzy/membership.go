package fuzzy

import "math"

// Membership is an immutable trapezoidal membership function with breakpoints
// a <= b <= c <= d: zero outside (a, d), a linear ramp up on [a, b], a plateau
// of one on [b, c], and a linear ramp down on [c, d]. A triangle is the b == c
// special case. Degenerate ramps (a == b or c == d) form a vertical edge; the
// plateau wins at the shared point.
type Membership struct {
	a, b, c, d float64
}

// Trapezoid builds a trapezoidal membership function. The breakpoints must be
// finite and non-decreasing.
func Trapezoid(a, b, c, d float64) (Membership, error) {
	for _, v := range [4]float64{a, b, c, d} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Membership{}, configErrorf("membership breakpoints must be finite: [%v %v %v %v]", a, b, c, d)
		}
	}
	if !(a <= b && b <= c && c <= d) {
		return Membership{}, configErrorf("membership breakpoints must be non-decreasing: [%v %v %v %v]", a, b, c, d)
	}
	return Membership{a: a, b: b, c: c, d: d}, nil
}

// Triangle builds a triangular membership function peaking at b.
func Triangle(a, b, c float64) (Membership, error) {
	return Trapezoid(a, b, b, c)
}

// Degree returns the degree of truth of x, always in [0, 1]. Boundary
// semantics are inclusive: for a non-degenerate ramp, Degree(a) == 0 and
// Degree(d) == 0, while Degree is 1 everywhere on [b, c].
func (m Membership) Degree(x float64) float64 {
	switch {
	case x < m.a:
		return 0
	case x < m.b:
		return (x - m.a) / (m.b - m.a)
	case x <= m.c:
		return 1
	case x < m.d:
		return (m.d - x) / (m.d - m.c)
	default:
		return 0
	}
}

// Breakpoints returns the four breakpoints a, b, c, d.
func (m Membership) Breakpoints() (a, b, c, d float64) {
	return m.a, m.b, m.c, m.d
}

// IsTriangle reports whether the plateau is a single point.
func (m Membership) IsTriangle() bool { return m.b == m.c }
