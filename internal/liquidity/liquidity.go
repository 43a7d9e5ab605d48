package liquidity

import (
	"time"

	"bond-pricer/internal/schedule"
)

// DefaultThresholdDays is the holding period up to which a bond counts as liquid.
const DefaultThresholdDays = 30

// HoldingDays returns the calendar days between purchase and valuation.
func HoldingDays(purchase, valuation time.Time) int {
	return schedule.DaysBetween(purchase, valuation)
}

// IsLiquid reports whether a bond bought on purchase is still liquid at
// valuation. The threshold is inclusive.
func IsLiquid(purchase, valuation time.Time, thresholdDays int) bool {
	return HoldingDays(purchase, valuation) <= thresholdDays
}
