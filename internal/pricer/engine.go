package pricer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"bond-pricer/internal/calibrate"
	"bond-pricer/internal/curve"
	"bond-pricer/internal/liquidity"
	"bond-pricer/internal/model"
	"bond-pricer/internal/valuation"
)

// MaxLiquiditySpread caps the spread accepted for illiquid bonds.
const MaxLiquiditySpread = 0.10

// DefaultLiquiditySpread is added to the curve for illiquid bonds.
const DefaultLiquiditySpread = 0.01

// Config is the per-run configuration.
type Config struct {
	// ValuationDate defaults to today (UTC) when zero.
	ValuationDate    time.Time
	LiquidityDays    int
	LiquiditySpread  float64
	ReportMaturities []float64
	Calibration      calibrate.Settings
}

// DefaultConfig returns the configuration used when the caller sets nothing.
func DefaultConfig() Config {
	return Config{
		LiquidityDays:    liquidity.DefaultThresholdDays,
		LiquiditySpread:  DefaultLiquiditySpread,
		ReportMaturities: slices.Clone(curve.DefaultReportMaturities),
		Calibration:      calibrate.DefaultSettings(),
	}
}

func (c Config) Validate() error {
	if c.LiquidityDays < 0 {
		return errors.New("liquidity days must be >= 0")
	}
	if math.IsNaN(c.LiquiditySpread) || c.LiquiditySpread < 0 || c.LiquiditySpread > MaxLiquiditySpread {
		return fmt.Errorf("liquidity spread must be in [0, %g]", MaxLiquiditySpread)
	}
	for _, m := range c.ReportMaturities {
		if math.IsNaN(m) || m < 0 {
			return fmt.Errorf("report maturity %g must be >= 0", m)
		}
	}
	return c.Calibration.Validate()
}

type Engine struct {
	logger *slog.Logger
	now    func() time.Time
}

func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, now: time.Now}
}

// Run values a portfolio: build bonds, calibrate on the liquid subset, then
// price every bond at the fitted curve (illiquid ones at curve + spread).
// Any input problem fails the run; no partial results are returned.
func (e *Engine) Run(inputs []model.BondInput, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	valDate := cfg.ValuationDate
	if valDate.IsZero() {
		valDate = e.now()
	}
	valDate = model.DateOnly(valDate)
	grid := cfg.ReportMaturities
	if len(grid) == 0 {
		grid = curve.DefaultReportMaturities
	}

	bonds, err := model.BuildBonds(inputs, valDate, cfg.LiquidityDays)
	if err != nil {
		return nil, err
	}

	cal := calibrate.New(cfg.Calibration, e.logger).Calibrate(bonds, valDate)
	switch {
	case cal.Err() != nil:
		e.logger.Warn("valuing with uncalibrated curve", slog.Any("err", cal.Err()))
	case !cal.Converged:
		e.logger.Warn("calibration did not converge; using best parameters found",
			slog.String("optimizer_status", cal.OptimizerStatus),
			slog.Float64("objective", cal.Objective),
		)
	}

	rows := make([]Row, 0, len(bonds))
	for _, b := range bonds {
		res := valuation.Value(b, cal.Params, valDate, cfg.LiquiditySpread)
		rows = append(rows, Row{
			Index: b.Index,
			Label: b.Label,
			Name:  b.Name,

			MarketPrice:           b.PurchasePrice,
			PurchaseDate:          b.PurchaseDate,
			MaturityDate:          b.MaturityDate,
			CouponFrequencyMonths: b.CouponFrequencyMonths,
			CouponRatePercent:     b.CouponRatePercent,
			CouponCount:           b.NumCoupons(),

			HoldingDays: b.HoldingDays,
			Liquid:      b.Liquid,

			Price:        res.Price,
			Duration:     res.Duration,
			PricingError: res.Price - b.PurchasePrice,
		})
	}

	result := &Result{
		RunID:           uuid.NewString(),
		ValuationDate:   valDate,
		LiquidityDays:   cfg.LiquidityDays,
		LiquiditySpread: cfg.LiquiditySpread,
		Rows:            rows,
		Curve:           curve.Sample(grid, cal.Params),
		Params:          cal.Params,
		Calibration:     cal,
	}

	e.logger.Info("valuation run complete",
		slog.String("run_id", result.RunID),
		slog.String("valuation_date", valDate.Format("2006-01-02")),
		slog.Int("bonds", len(rows)),
		slog.Int("liquid", cal.LiquidBonds),
		slog.String("calibration", string(cal.Status)),
	)
	return result, nil
}
