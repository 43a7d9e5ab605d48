package valuation

import (
	"math"
	"time"

	"bond-pricer/internal/curve"
	"bond-pricer/internal/model"
	"bond-pricer/internal/schedule"
)

// Degenerate-case policy values.
const (
	// DegeneratePrice is the price of a bond with no remaining cash flows.
	DegeneratePrice = 0.0
	// DegenerateDuration is returned when total present value is not positive.
	// It is also safe as a weighting denominator.
	DegenerateDuration = 1.0
)

// DaysPerYear converts elapsed days to curve time and sets the daily
// compounding period.
const DaysPerYear = 365.0

// Result is the valuation of one bond under one parameter vector.
type Result struct {
	Price    float64
	Duration float64 // years
}

// Value prices a bond and computes its duration in a single pass.
// spread is added to the curve rate for illiquid bonds only; duration is
// always computed on the unspread curve.
func Value(b model.Bond, p curve.Params, valuationDate time.Time, spread float64) Result {
	valuationDate = model.DateOnly(valuationDate)

	var price, pvCurve, weighted float64
	n := b.NumCoupons()
	coupon := b.CouponAmount()
	for i := 0; i < n; i++ {
		d := b.CouponDate(i)
		if !d.After(valuationDate) {
			continue
		}
		days := float64(schedule.DaysBetween(valuationDate, d))
		t := days / DaysPerYear
		cf := coupon
		if i == n-1 {
			cf += model.FaceValue
		}

		r := curve.SpotRate(t, p)
		pv := discount(cf, r, days)
		pvCurve += pv
		weighted += t * pv

		if !b.Liquid && spread != 0 {
			pv = discount(cf, r+spread, days)
		}
		price += pv
	}

	res := Result{Price: price, Duration: DegenerateDuration}
	if n == 0 {
		res.Price = DegeneratePrice
	}
	if pvCurve > 0 {
		res.Duration = weighted / pvCurve
	}
	return res
}

// PresentValue is the model price of the bond. See Value.
func PresentValue(b model.Bond, p curve.Params, valuationDate time.Time, spread float64) float64 {
	return Value(b, p, valuationDate, spread).Price
}

// Duration is the present-value weighted average time to payment in years,
// or DegenerateDuration when the bond has no positive present value.
func Duration(b model.Bond, p curve.Params, valuationDate time.Time) float64 {
	return Value(b, p, valuationDate, 0).Duration
}

// discount applies daily compounding of an annualised rate over days.
func discount(cf, rate, days float64) float64 {
	return cf / math.Pow(1+rate/DaysPerYear, days)
}
