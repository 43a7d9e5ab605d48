package model

import (
	"fmt"
	"time"

	"bond-pricer/internal/liquidity"
	"bond-pricer/internal/schedule"
)

// FaceValue is the redemption amount every price is quoted against.
const FaceValue = 100.0

// Bond is a fully derived, read-only bond built once per run.
type Bond struct {
	BondInput

	// Index is the 1-based position of the input row.
	Index int
	// Label is "Bond N" for the row; used when Name is blank.
	Label string

	HoldingDays int
	Liquid      bool

	couponDates []time.Time
}

// NewBond derives the coupon schedule and liquidity flag for an input row.
// Dates are truncated to calendar days. A purchase after valuation is an
// input problem. Problems are returned as *InputError.
func NewBond(in BondInput, index int, valuation time.Time, liquidityDays int) (Bond, error) {
	valuation = DateOnly(valuation)
	problems := in.Validate(index)
	if !in.PurchaseDate.IsZero() && DateOnly(in.PurchaseDate).After(valuation) {
		problems = append(problems, FieldError{
			Row:    index,
			Field:  FieldPurchaseDate,
			Value:  DateOnly(in.PurchaseDate).Format("2006-01-02"),
			Reason: "is after the valuation date " + valuation.Format("2006-01-02"),
		})
	}
	if len(problems) > 0 {
		return Bond{}, &InputError{Problems: problems}
	}

	in.PurchaseDate = DateOnly(in.PurchaseDate)
	in.MaturityDate = DateOnly(in.MaturityDate)

	label := fmt.Sprintf("Bond %d", index)
	if in.Name == "" {
		in.Name = label
	}

	return Bond{
		BondInput:   in,
		Index:       index,
		Label:       label,
		HoldingDays: liquidity.HoldingDays(in.PurchaseDate, valuation),
		Liquid:      liquidity.IsLiquid(in.PurchaseDate, valuation, liquidityDays),
		couponDates: schedule.Generate(in.MaturityDate, in.CouponFrequencyMonths, valuation),
	}, nil
}

// CouponDates returns a copy of the ascending coupon schedule.
func (b Bond) CouponDates() []time.Time {
	out := make([]time.Time, len(b.couponDates))
	copy(out, b.couponDates)
	return out
}

// NumCoupons is the number of scheduled payment dates.
func (b Bond) NumCoupons() int { return len(b.couponDates) }

// CouponDate returns the i-th payment date.
func (b Bond) CouponDate(i int) time.Time { return b.couponDates[i] }

// CouponAmount is the per-period coupon per 100 face.
func (b Bond) CouponAmount() float64 {
	return FaceValue * b.CouponRatePercent / 100 * (float64(b.CouponFrequencyMonths) / 12)
}

// Matured reports whether the bond has no remaining schedule.
func (b Bond) Matured() bool { return len(b.couponDates) == 0 }
