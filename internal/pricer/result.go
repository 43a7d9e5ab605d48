package pricer

import (
	"time"

	"bond-pricer/internal/calibrate"
	"bond-pricer/internal/curve"
)

// Row is one bond of the valuation table.
// This is the primary artifact for "what is it worth" in a run.
type Row struct {
	Index int
	Label string
	Name  string

	MarketPrice           float64
	PurchaseDate          time.Time
	MaturityDate          time.Time
	CouponFrequencyMonths int
	CouponRatePercent     float64
	CouponCount           int

	HoldingDays int
	Liquid      bool

	Price    float64
	Duration float64
	// PricingError is Price - MarketPrice.
	PricingError float64
}

// Result is the results bundle of one valuation run. It is not modified
// after Run returns.
type Result struct {
	RunID         string
	ValuationDate time.Time

	LiquidityDays   int
	LiquiditySpread float64

	Rows        []Row
	Curve       []curve.Point
	Params      curve.Params
	Calibration calibrate.Calibration
}

// LiquidCount is the number of rows that took part in calibration.
func (r *Result) LiquidCount() int {
	n := 0
	for _, row := range r.Rows {
		if row.Liquid {
			n++
		}
	}
	return n
}
