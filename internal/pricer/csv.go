package pricer

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Output precision for prices and rates.
const (
	PriceDecimals = 6
	RateDecimals  = 8
)

func WriteValuationCSV(path string, res *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return EncodeValuationCSV(f, res)
}

// EncodeValuationCSV writes the per-bond table.
func EncodeValuationCSV(out io.Writer, res *Result) error {
	w := csv.NewWriter(out)

	header := []string{
		"index",
		"name",
		"purchase_price",
		"purchase_date",
		"maturity_date",
		"coupon_frequency",
		"coupon_rate",
		"coupon_count",
		"holding_days",
		"liquid",
		"price",
		"duration",
		"pricing_error",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range res.Rows {
		row := []string{
			strconv.Itoa(r.Index),
			r.Name,
			fmtPrice(r.MarketPrice),
			fmtDate(r.PurchaseDate),
			fmtDate(r.MaturityDate),
			strconv.Itoa(r.CouponFrequencyMonths),
			fmtPrice(r.CouponRatePercent),
			strconv.Itoa(r.CouponCount),
			strconv.Itoa(r.HoldingDays),
			strconv.FormatBool(r.Liquid),
			fmtPrice(r.Price),
			fmtRate(r.Duration),
			fmtPrice(r.PricingError),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// EncodeCurveCSV writes the curve samples.
func EncodeCurveCSV(out io.Writer, res *Result) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"maturity_years", "spot_rate"}); err != nil {
		return err
	}
	for _, pt := range res.Curve {
		if err := w.Write([]string{strconv.FormatFloat(pt.Maturity, 'f', -1, 64), fmtRate(pt.Rate)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func fmtPrice(x float64) string { return round(x, PriceDecimals) }

func fmtRate(x float64) string { return round(x, RateDecimals) }

// round formats x with at most places decimals. decimal panics on NaN/Inf.
func round(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return decimal.NewFromFloat(x).Round(places).String()
}
