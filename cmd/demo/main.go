package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"bond-pricer/internal/config"
	"bond-pricer/internal/model"
	"bond-pricer/internal/pricer"
)

// Demo:
// - Build a five-bond portfolio relative to the valuation date
// - Fit the curve to the liquid ones
// - Print the valuation table and the curve
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	date := flag.String("date", "2025-09-15", "Valuation date YYYY-MM-DD")
	outCSV := flag.String("out", "", "Optional path to write the valuation CSV (e.g. results/valuation.csv)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	pc := cfg.ToPricerConfig()
	valDate, err := time.Parse("2006-01-02", *date)
	if err != nil {
		panic(err)
	}
	pc.ValuationDate = valDate

	bonds := samplePortfolio(valDate)
	engine := pricer.New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	res, err := engine.Run(bonds, pc)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Valuation date %s, liquidity threshold %d days, spread %.2f%%\n",
		res.ValuationDate.Format("2006-01-02"), res.LiquidityDays, 100*res.LiquiditySpread)
	fmt.Printf("Calibration %s (%s) on %d liquid bonds, objective=%.6g\n\n",
		res.Calibration.Status, res.Calibration.Method, res.Calibration.LiquidBonds, res.Calibration.Objective)

	for _, r := range res.Rows {
		fmt.Printf("%-10s market=%7.2f  model=%8.4f  err=%+8.4f  dur=%6.3f  coupons=%2d  held=%4dd  liquid=%t\n",
			r.Name, r.MarketPrice, r.Price, r.PricingError, r.Duration, r.CouponCount, r.HoldingDays, r.Liquid)
	}

	fmt.Println()
	for _, pt := range res.Curve {
		fmt.Printf("  %5.1fy  %7.4f%%\n", pt.Maturity, 100*pt.Rate)
	}

	if *outCSV != "" {
		if err := pricer.WriteValuationCSV(*outCSV, res); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(res.Rows), *outCSV)
	}
}

// samplePortfolio is three recently traded bonds and two stale ones.
func samplePortfolio(valDate time.Time) []model.BondInput {
	bond := func(name string, price float64, heldDays, years, freq int, coupon float64) model.BondInput {
		return model.BondInput{
			Name:                  name,
			PurchasePrice:         price,
			PurchaseDate:          valDate.AddDate(0, 0, -heldDays),
			MaturityDate:          valDate.AddDate(years, 0, 0),
			CouponFrequencyMonths: freq,
			CouponRatePercent:     coupon,
		}
	}
	return []model.BondInput{
		bond("GOV-1Y", 97.8, 3, 1, 12, 8),
		bond("GOV-2Y", 95.0, 10, 2, 6, 10),
		bond("GOV-5Y", 91.5, 21, 5, 6, 9.5),
		bond("CORP-3Y", 94.0, 120, 3, 6, 11),
		bond("CORP-7Y", 88.0, 400, 7, 12, 10),
	}
}
