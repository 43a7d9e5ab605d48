package models

import (
	"math"

	"github.com/shopspring/decimal"

	"bond-pricer/internal/analysis"
	"bond-pricer/internal/pricer"
)

// NewValuationResponse converts an engine result for JSON output.
func NewValuationResponse(res *pricer.Result) ValuationResponse {
	cal := res.Calibration
	out := ValuationResponse{
		ID:            res.RunID,
		ValuationDate: res.ValuationDate.Format("2006-01-02"),
		Liquidity: LiquiditySummary{
			Days:        res.LiquidityDays,
			Spread:      res.LiquiditySpread,
			LiquidCount: res.LiquidCount(),
		},
		Calibration: CalibrationSummary{
			Status:          string(cal.Status),
			Converged:       cal.Converged,
			OptimizerStatus: cal.OptimizerStatus,
			Method:          cal.Method,
			Iterations:      cal.Iterations,
			Evaluations:     cal.Evaluations,
			LiquidBonds:     cal.LiquidBonds,
			RuntimeMS:       cal.Runtime.Milliseconds(),
		},
		Params: res.Params,
		Curve:  res.Curve,
		Fit:    newFitResponse(analysis.Summarize(res)),
		Bonds:  make([]BondValuation, 0, len(res.Rows)),
	}
	if cal.LiquidBonds > 0 {
		out.Calibration.Objective = finiteOrNil(cal.Objective)
		out.Calibration.InitialObjective = finiteOrNil(cal.InitialObjective)
	}

	for _, r := range res.Rows {
		out.Bonds = append(out.Bonds, BondValuation{
			Index:           r.Index,
			Name:            r.Name,
			PurchasePrice:   round(r.MarketPrice, pricer.PriceDecimals),
			PurchaseDate:    r.PurchaseDate.Format("2006-01-02"),
			MaturityDate:    r.MaturityDate.Format("2006-01-02"),
			CouponFrequency: r.CouponFrequencyMonths,
			CouponRate:      round(r.CouponRatePercent, pricer.PriceDecimals),
			CouponCount:     r.CouponCount,
			HoldingDays:     r.HoldingDays,
			Liquid:          r.Liquid,
			Price:           round(r.Price, pricer.PriceDecimals),
			Duration:        round(r.Duration, pricer.RateDecimals),
			PricingError:    round(r.PricingError, pricer.PriceDecimals),
		})
	}
	return out
}

// round converts x for JSON output. Non-finite values become zero; the
// engine never produces them for validated input.
func round(x float64, places int32) decimal.Decimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(x).Round(places)
}

func finiteOrNil(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func newFitResponse(s analysis.FitSummary) FitResponse {
	return FitResponse{
		All:      newErrorStats(s.All),
		Liquid:   newErrorStats(s.Liquid),
		Illiquid: newErrorStats(s.Illiquid),
	}
}

func newErrorStats(s analysis.ErrorStats) ErrorStats {
	return ErrorStats{
		Count:        s.Count,
		MeanError:    s.MeanError,
		RMSE:         s.RMSE,
		MaxAbsError:  s.MaxAbsError,
		P05Error:     s.P05Error,
		P95Error:     s.P95Error,
		MeanDuration: s.MeanDuration,
	}
}
