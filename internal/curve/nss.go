package curve

import (
	"fmt"
	"math"
)

// Params holds the six Nelson-Siegel-Svensson parameters.
// Units:
// - Beta0..Beta3: decimal rates (0.05 = 5%)
// - Tau1, Tau2: years, must be > 0
type Params struct {
	Beta0 float64 `json:"beta0"` // long-run level
	Beta1 float64 `json:"beta1"` // slope
	Beta2 float64 `json:"beta2"` // first hump
	Beta3 float64 `json:"beta3"` // second hump
	Tau1  float64 `json:"tau1"`
	Tau2  float64 `json:"tau2"`
}

// NumParams is the dimension of the parameter vector.
const NumParams = 6

// Vector returns the parameters in (β0, β1, β2, β3, τ1, τ2) order.
func (p Params) Vector() []float64 {
	return []float64{p.Beta0, p.Beta1, p.Beta2, p.Beta3, p.Tau1, p.Tau2}
}

// ParamsFromVector is the inverse of Vector.
func ParamsFromVector(x []float64) (Params, error) {
	if len(x) != NumParams {
		return Params{}, fmt.Errorf("curve params: expected %d values, got %d", NumParams, len(x))
	}
	return Params{Beta0: x[0], Beta1: x[1], Beta2: x[2], Beta3: x[3], Tau1: x[4], Tau2: x[5]}, nil
}

func (p Params) Validate() error {
	for i, v := range p.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("curve params: value %d is not finite", i)
		}
	}
	if p.Tau1 <= 0 || p.Tau2 <= 0 {
		return fmt.Errorf("curve params: tau1 and tau2 must be > 0 (got %g, %g)", p.Tau1, p.Tau2)
	}
	return nil
}

// ShortRate is the t -> 0 limit of the curve.
func (p Params) ShortRate() float64 {
	return p.Beta0 + p.Beta1
}

// SpotRate returns the annualised zero rate at t years.
// For t <= 0 it returns the instantaneous short rate β0 + β1.
func SpotRate(t float64, p Params) float64 {
	if t <= 0 {
		return p.ShortRate()
	}
	x1 := t / p.Tau1
	x2 := t / p.Tau2
	e1 := math.Exp(-x1)
	e2 := math.Exp(-x2)
	l1 := loading(x1)
	l2 := loading(x2)

	return p.Beta0 +
		p.Beta1*l1 +
		p.Beta2*(l1-e1) +
		p.Beta3*(l2-e2)
}

// loading computes (1 - e^-x) / x, switching to its series near zero.
func loading(x float64) float64 {
	if x < 1e-8 {
		return 1 - x/2 + x*x/6
	}
	return -math.Expm1(-x) / x
}
