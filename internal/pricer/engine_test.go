package pricer_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"bond-pricer/internal/calibrate"
	"bond-pricer/internal/curve"
	"bond-pricer/internal/model"
	"bond-pricer/internal/pricer"
	"bond-pricer/internal/valuation"
)

var valDate = time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)

func quietEngine() *pricer.Engine {
	return pricer.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() pricer.Config {
	cfg := pricer.DefaultConfig()
	cfg.ValuationDate = valDate
	return cfg
}

func twoYearBond(purchaseDaysAgo int) model.BondInput {
	return model.BondInput{
		Name:                  "Sole",
		PurchasePrice:         95,
		PurchaseDate:          valDate.AddDate(0, 0, -purchaseDaysAgo),
		MaturityDate:          valDate.AddDate(2, 0, 0),
		CouponFrequencyMonths: 6,
		CouponRatePercent:     10,
	}
}

func TestRun_SingleLiquidBondFitsMarketPrice(t *testing.T) {
	t.Parallel()

	res, err := quietEngine().Run([]model.BondInput{twoYearBond(10)}, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Rows) != 1 || !res.Rows[0].Liquid {
		t.Fatalf("rows: %+v", res.Rows)
	}
	if got := res.Rows[0].Price; math.Abs(got-95) > 0.5 {
		t.Fatalf("fitted price: got %.4f want ~95 (calibration %+v)", got, res.Calibration)
	}
	if res.Rows[0].CouponCount != 5 {
		t.Fatalf("coupon count: got %d want 5", res.Rows[0].CouponCount)
	}
	if !calibrate.DefaultBounds.Contains(res.Params) {
		t.Fatalf("params outside bounds: %+v", res.Params)
	}
	if res.Calibration.LiquidBonds != 1 {
		t.Fatalf("liquid bonds: %d", res.Calibration.LiquidBonds)
	}
	if res.RunID == "" {
		t.Fatalf("missing run id")
	}
}

func TestRun_IlliquidTwinIsDiscountedBySpread(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	inputs := []model.BondInput{twoYearBond(5), twoYearBond(200)}
	res, err := quietEngine().Run(inputs, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	liquid, illiquid := res.Rows[0], res.Rows[1]
	if !liquid.Liquid || illiquid.Liquid {
		t.Fatalf("liquidity flags: %v %v", liquid.Liquid, illiquid.Liquid)
	}
	if res.Calibration.LiquidBonds != 1 {
		t.Fatalf("only the liquid twin should calibrate, got %d", res.Calibration.LiquidBonds)
	}

	diff := liquid.Price - illiquid.Price
	if diff <= 0 {
		t.Fatalf("illiquid price %.4f should be below liquid %.4f", illiquid.Price, liquid.Price)
	}
	// First-order: dP ~ D * spread * P.
	approx := liquid.Duration * cfg.LiquiditySpread * liquid.Price
	if diff < 0.8*approx || diff > 1.2*approx {
		t.Fatalf("price gap %.4f not close to duration effect %.4f", diff, approx)
	}

	bonds, err := model.BuildBonds(inputs, valDate, cfg.LiquidityDays)
	if err != nil {
		t.Fatalf("BuildBonds: %v", err)
	}
	want := valuation.PresentValue(bonds[1], res.Params, valDate, cfg.LiquiditySpread)
	if math.Abs(illiquid.Price-want) > 1e-12 {
		t.Fatalf("illiquid price: got %.12f want %.12f", illiquid.Price, want)
	}
}

func TestRun_NoLiquidBondsUsesInitialGuess(t *testing.T) {
	t.Parallel()

	res, err := quietEngine().Run([]model.BondInput{twoYearBond(90), twoYearBond(400)}, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Calibration.Status != calibrate.StatusNoLiquidBonds {
		t.Fatalf("status: %s", res.Calibration.Status)
	}
	if res.Params != calibrate.InitialGuess {
		t.Fatalf("params: %+v", res.Params)
	}
	for _, row := range res.Rows {
		if row.Price <= 0 {
			t.Fatalf("row %d not priced: %+v", row.Index, row)
		}
	}
}

func TestRun_InputErrorReturnsNoResult(t *testing.T) {
	t.Parallel()

	bad := twoYearBond(1)
	bad.CouponFrequencyMonths = 0
	res, err := quietEngine().Run([]model.BondInput{twoYearBond(1), bad}, testConfig())
	if res != nil {
		t.Fatalf("expected no partial result")
	}
	var ie *model.InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *InputError, got %v", err)
	}
	if ie.Problems[0].Row != 2 || ie.Problems[0].Field != model.FieldCouponFrequency {
		t.Fatalf("problem: %+v", ie.Problems[0])
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	for _, mutate := range []func(*pricer.Config){
		func(c *pricer.Config) { c.LiquidityDays = -1 },
		func(c *pricer.Config) { c.LiquiditySpread = 0.2 },
		func(c *pricer.Config) { c.LiquiditySpread = -0.01 },
		func(c *pricer.Config) { c.ReportMaturities = []float64{1, -2} },
		func(c *pricer.Config) { c.Calibration.Method = "gradient-free-magic" },
	} {
		cfg := testConfig()
		mutate(&cfg)
		if _, err := quietEngine().Run([]model.BondInput{twoYearBond(1)}, cfg); err == nil {
			t.Fatalf("expected config error for %+v", cfg)
		}
	}
}

func TestRun_CurveSamplesOnReportGrid(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	res, err := quietEngine().Run([]model.BondInput{twoYearBond(3)}, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Curve) != len(curve.DefaultReportMaturities) {
		t.Fatalf("curve points: %d", len(res.Curve))
	}
	for i, pt := range res.Curve {
		if pt.Maturity != curve.DefaultReportMaturities[i] || pt.Rate != curve.SpotRate(pt.Maturity, res.Params) {
			t.Fatalf("point %d: %+v", i, pt)
		}
	}
}

func TestRun_DeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	inputs := []model.BondInput{twoYearBond(3), twoYearBond(500)}
	a, err := quietEngine().Run(inputs, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := quietEngine().Run(inputs, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.Params != b.Params || a.Rows[1].Price != b.Rows[1].Price {
		t.Fatalf("runs differ: %+v vs %+v", a.Params, b.Params)
	}
	if a.RunID == b.RunID {
		t.Fatalf("run ids should be unique")
	}
}

func TestCompare_RunsScenariosInOrder(t *testing.T) {
	t.Parallel()

	tight, wide := 0.0, 0.05
	scenarios := []pricer.Scenario{
		{Name: "no-spread", LiquiditySpread: &tight},
		{Name: "wide", LiquiditySpread: &wide},
		{Name: "base"},
	}
	inputs := []model.BondInput{twoYearBond(3), twoYearBond(300)}
	out, err := quietEngine().Compare(context.Background(), inputs, testConfig(), scenarios, 2)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(out) != 3 || out[0].Name != "no-spread" || out[2].Name != "base" {
		t.Fatalf("scenario order: %+v", out)
	}
	p0 := out[0].Result.Rows[1].Price
	p1 := out[1].Result.Rows[1].Price
	p2 := out[2].Result.Rows[1].Price
	if !(p0 > p2 && p2 > p1) {
		t.Fatalf("illiquid prices should fall with spread: %g %g %g", p0, p2, p1)
	}
}

func TestCompare_FailingScenarioFailsAll(t *testing.T) {
	t.Parallel()

	bad := 0.5
	_, err := quietEngine().Compare(context.Background(), []model.BondInput{twoYearBond(3)}, testConfig(),
		[]pricer.Scenario{{Name: "ok"}, {Name: "too-wide", LiquiditySpread: &bad}}, 0)
	if err == nil || !strings.Contains(err.Error(), "too-wide") {
		t.Fatalf("expected scenario error, got %v", err)
	}
	if _, err := quietEngine().Compare(context.Background(), nil, testConfig(), nil, 0); err == nil {
		t.Fatalf("expected error without scenarios")
	}
}

func TestEncodeValuationCSV(t *testing.T) {
	t.Parallel()

	res, err := quietEngine().Run([]model.BondInput{twoYearBond(3), twoYearBond(300)}, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var buf bytes.Buffer
	if err := pricer.EncodeValuationCSV(&buf, res); err != nil {
		t.Fatalf("EncodeValuationCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records: %d", len(records))
	}
	if records[0][0] != "index" || records[0][10] != "price" {
		t.Fatalf("header: %v", records[0])
	}
	if records[2][9] != "false" || records[1][3] != valDate.AddDate(0, 0, -3).Format("2006-01-02") {
		t.Fatalf("row: %v", records[1])
	}

	buf.Reset()
	if err := pricer.EncodeCurveCSV(&buf, res); err != nil {
		t.Fatalf("EncodeCurveCSV: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 1+len(res.Curve) {
		t.Fatalf("curve csv lines: %d", lines)
	}
}
