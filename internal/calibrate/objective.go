package calibrate

import (
	"time"

	"bond-pricer/internal/curve"
	"bond-pricer/internal/model"
	"bond-pricer/internal/valuation"
)

// MinWeightDuration floors the duration used as the objective weight
// denominator at one day, so a bond paying out tomorrow has weight <= 365.
const MinWeightDuration = 1.0 / valuation.DaysPerYear

// Objective returns J(p): the sum over liquid bonds of
// (PV(p) - market)^2 / duration(p). Illiquid bonds are ignored.
func Objective(bonds []model.Bond, valuationDate time.Time) func(curve.Params) float64 {
	liquid := model.LiquidBonds(bonds)
	return func(p curve.Params) float64 {
		var sum float64
		for _, b := range liquid {
			res := valuation.Value(b, p, valuationDate, 0)
			diff := res.Price - b.PurchasePrice
			sum += diff * diff / max(res.Duration, MinWeightDuration)
		}
		return sum
	}
}
