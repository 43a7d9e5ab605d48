package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"bond-pricer/internal/pricer"
)

// ErrorStats summarises model-minus-market pricing errors over a set of bonds.
type ErrorStats struct {
	Count int

	MeanError   float64
	RMSE        float64
	MaxAbsError float64
	P05Error    float64
	P95Error    float64

	// MeanDuration is the average duration of the set, in years.
	MeanDuration float64
}

// FitSummary splits the error statistics by liquidity. Liquid errors measure
// calibration quality; illiquid errors include the spread by construction.
type FitSummary struct {
	All      ErrorStats
	Liquid   ErrorStats
	Illiquid ErrorStats
}

func Summarize(res *pricer.Result) FitSummary {
	var all, liquid, illiquid []pricer.Row
	for _, r := range res.Rows {
		all = append(all, r)
		if r.Liquid {
			liquid = append(liquid, r)
		} else {
			illiquid = append(illiquid, r)
		}
	}
	return FitSummary{
		All:      ComputeErrorStats(all),
		Liquid:   ComputeErrorStats(liquid),
		Illiquid: ComputeErrorStats(illiquid),
	}
}

func ComputeErrorStats(rows []pricer.Row) ErrorStats {
	s := ErrorStats{Count: len(rows)}
	if len(rows) == 0 {
		return s
	}

	errs := make([]float64, 0, len(rows))
	durs := make([]float64, 0, len(rows))
	sq := 0.0
	for _, r := range rows {
		errs = append(errs, r.PricingError)
		durs = append(durs, r.Duration)
		sq += r.PricingError * r.PricingError
		s.MaxAbsError = math.Max(s.MaxAbsError, math.Abs(r.PricingError))
	}
	s.MeanError = stat.Mean(errs, nil)
	s.RMSE = math.Sqrt(sq / float64(len(errs)))
	s.MeanDuration = stat.Mean(durs, nil)

	sort.Float64s(errs)
	s.P05Error = stat.Quantile(0.05, stat.LinInterp, errs, nil)
	s.P95Error = stat.Quantile(0.95, stat.LinInterp, errs, nil)
	return s
}
