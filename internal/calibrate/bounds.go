package calibrate

import (
	"fmt"

	"bond-pricer/internal/curve"
)

// Bounds is a box constraint on the parameter vector, in Vector() order.
type Bounds struct {
	Lower [curve.NumParams]float64
	Upper [curve.NumParams]float64
}

// DefaultBounds is the search box for (β0, β1, β2, β3, τ1, τ2).
var DefaultBounds = Bounds{
	Lower: [curve.NumParams]float64{0.00, -0.30, -0.30, -0.30, 0.1, 0.1},
	Upper: [curve.NumParams]float64{0.30, 0.30, 0.30, 0.30, 10.0, 10.0},
}

// InitialGuess is where every calibration starts.
var InitialGuess = curve.Params{Beta0: 0.10, Beta1: -0.05, Beta2: 0.02, Beta3: 0.01, Tau1: 1.5, Tau2: 3.0}

func (b Bounds) Validate() error {
	for i := range b.Lower {
		if b.Lower[i] > b.Upper[i] {
			return fmt.Errorf("bounds: lower %g > upper %g at index %d", b.Lower[i], b.Upper[i], i)
		}
	}
	if b.Lower[4] <= 0 || b.Lower[5] <= 0 {
		return fmt.Errorf("bounds: tau lower bounds must be > 0")
	}
	return nil
}

// Project clamps x into the box and returns the result as Params.
func (b Bounds) Project(x []float64) curve.Params {
	var v [curve.NumParams]float64
	for i := range v {
		v[i] = clamp(x[i], b.Lower[i], b.Upper[i])
	}
	return curve.Params{Beta0: v[0], Beta1: v[1], Beta2: v[2], Beta3: v[3], Tau1: v[4], Tau2: v[5]}
}

// Contains reports whether p lies inside the box.
func (b Bounds) Contains(p curve.Params) bool {
	for i, v := range p.Vector() {
		if v < b.Lower[i] || v > b.Upper[i] {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
