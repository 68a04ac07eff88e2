// Package fuzzy implements a single-output Mamdani fuzzy inference engine:
// linguistic variables over discretized universes, trapezoidal and triangular
// membership functions, min/max/complement rule expressions, implication by
// clipping, aggregation by pointwise maximum, and centroid defuzzification.
//
// An Engine is immutable once constructed and may be shared across any number
// of Simulations. A Simulation holds the mutable per-cycle state (crisp inputs
// and computed outputs) and must not be driven from multiple goroutines.
package fuzzy
