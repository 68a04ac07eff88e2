package fuzzy

// Centroid reduces an aggregated fuzzy set to one crisp value by its center
// of mass: sum(x*mu(x)) / sum(mu(x)) over the universe's sample points.
// mu must have exactly u.Len() entries, one per sample point.
//
// When every membership value is zero the centroid is undefined; ok is false
// and the universe midpoint is returned so a control loop can keep running.
func Centroid(u Universe, mu []float64) (value float64, ok bool) {
	points := u.Points()
	var num, den float64
	for i, x := range points {
		num += x * mu[i]
		den += mu[i]
	}
	if den == 0 {
		return u.Midpoint(), false
	}
	return num / den, true
}
