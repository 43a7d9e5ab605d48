package model

import (
	"math"
	"strconv"
	"time"
)

// Input field names, as they appear in CSV headers and JSON bodies.
const (
	FieldName            = "name"
	FieldPurchasePrice   = "purchase_price"
	FieldPurchaseDate    = "purchase_date"
	FieldMaturityDate    = "maturity_date"
	FieldCouponFrequency = "coupon_frequency"
	FieldCouponRate      = "coupon_rate"
)

// Fields lists the input columns in their conventional order.
var Fields = []string{
	FieldName,
	FieldPurchasePrice,
	FieldPurchaseDate,
	FieldMaturityDate,
	FieldCouponFrequency,
	FieldCouponRate,
}

// BondInput is one raw, already-typed input row.
// Units:
// - PurchasePrice: currency units per 100 face
// - CouponFrequencyMonths: months between coupons
// - CouponRatePercent: annual coupon in percent (5.0 = 5%)
type BondInput struct {
	Name                  string
	PurchasePrice         float64
	PurchaseDate          time.Time
	MaturityDate          time.Time
	CouponFrequencyMonths int
	CouponRatePercent     float64
}

// Validate returns every problem with the row. row is the 1-based row number.
func (in BondInput) Validate(row int) []FieldError {
	var problems []FieldError
	add := func(field, value, reason string) {
		problems = append(problems, FieldError{Row: row, Field: field, Value: value, Reason: reason})
	}

	if !finite(in.PurchasePrice) || in.PurchasePrice < 0 {
		add(FieldPurchasePrice, fmtFloat(in.PurchasePrice), "must be a finite number >= 0")
	}
	if in.PurchaseDate.IsZero() {
		add(FieldPurchaseDate, "", "is required")
	}
	if in.MaturityDate.IsZero() {
		add(FieldMaturityDate, "", "is required")
	}
	if in.CouponFrequencyMonths <= 0 {
		add(FieldCouponFrequency, strconv.Itoa(in.CouponFrequencyMonths), "must be a positive number of months")
	}
	if !finite(in.CouponRatePercent) || in.CouponRatePercent < 0 {
		add(FieldCouponRate, fmtFloat(in.CouponRatePercent), "must be a finite percentage >= 0")
	}
	return problems
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
