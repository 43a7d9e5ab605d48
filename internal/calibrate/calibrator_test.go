package calibrate_test

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"bond-pricer/internal/calibrate"
	"bond-pricer/internal/curve"
	"bond-pricer/internal/model"
	"bond-pricer/internal/valuation"
)

var valDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildBonds(t *testing.T, inputs []model.BondInput, liquidityDays int) []model.Bond {
	t.Helper()
	bonds, err := model.BuildBonds(inputs, valDate, liquidityDays)
	if err != nil {
		t.Fatalf("BuildBonds: %v", err)
	}
	return bonds
}

// portfolio prices a ladder of bonds off a known curve so the fit has a target.
func portfolio(t *testing.T, truth curve.Params) []model.Bond {
	t.Helper()
	var inputs []model.BondInput
	for i, years := range []int{1, 2, 3, 5, 7, 10} {
		inputs = append(inputs, model.BondInput{
			PurchasePrice:         100,
			PurchaseDate:          valDate.AddDate(0, 0, -i),
			MaturityDate:          valDate.AddDate(years, 0, 0),
			CouponFrequencyMonths: 6,
			CouponRatePercent:     4 + float64(i),
		})
	}
	raw := buildBonds(t, inputs, 30)
	for i := range inputs {
		inputs[i].PurchasePrice = valuation.PresentValue(raw[i], truth, valDate, 0)
	}
	return buildBonds(t, inputs, 30)
}

func TestCalibrate_RespectsBoundsAndImproves(t *testing.T) {
	t.Parallel()

	truth := curve.Params{Beta0: 0.06, Beta1: -0.02, Beta2: 0.03, Beta3: -0.01, Tau1: 2.0, Tau2: 5.0}
	bonds := portfolio(t, truth)

	cal := calibrate.New(calibrate.DefaultSettings(), quietLogger())
	res := cal.Calibrate(bonds, valDate)

	if !calibrate.DefaultBounds.Contains(res.Params) {
		t.Fatalf("params outside bounds: %+v", res.Params)
	}
	if res.LiquidBonds != len(bonds) {
		t.Fatalf("liquid bonds: got %d want %d", res.LiquidBonds, len(bonds))
	}
	if !(res.Objective <= res.InitialObjective) {
		t.Fatalf("objective got worse: %g > %g", res.Objective, res.InitialObjective)
	}
	j := calibrate.Objective(bonds, valDate)
	if got := j(res.Params); math.Abs(got-res.Objective) > 1e-12 {
		t.Fatalf("reported objective %g does not match J(params)=%g", res.Objective, got)
	}
	if res.Objective > 0.05*res.InitialObjective {
		t.Fatalf("fit too loose: J=%g from %g", res.Objective, res.InitialObjective)
	}
	if res.Err() != nil {
		t.Fatalf("unexpected Err: %v", res.Err())
	}
}

func TestCalibrate_Deterministic(t *testing.T) {
	t.Parallel()

	truth := curve.Params{Beta0: 0.08, Beta1: 0.01, Beta2: -0.02, Beta3: 0.02, Tau1: 1.0, Tau2: 4.0}
	bonds := portfolio(t, truth)

	a := calibrate.New(calibrate.DefaultSettings(), quietLogger()).Calibrate(bonds, valDate)
	b := calibrate.New(calibrate.DefaultSettings(), quietLogger()).Calibrate(bonds, valDate)
	if a.Params != b.Params {
		t.Fatalf("non-deterministic fit:\n%+v\n%+v", a.Params, b.Params)
	}
	if a.Objective != b.Objective || a.Evaluations != b.Evaluations {
		t.Fatalf("diagnostics differ: %+v vs %+v", a, b)
	}
	j := calibrate.Objective(bonds, valDate)
	if !(j(a.Params) <= j(calibrate.InitialGuess)) {
		t.Fatalf("J(fit)=%g > J(initial)=%g", j(a.Params), j(calibrate.InitialGuess))
	}
}

func TestCalibrate_NoLiquidBondsReturnsInitialGuess(t *testing.T) {
	t.Parallel()

	bonds := buildBonds(t, []model.BondInput{{
		PurchasePrice:         99,
		PurchaseDate:          valDate.AddDate(-1, 0, 0),
		MaturityDate:          valDate.AddDate(3, 0, 0),
		CouponFrequencyMonths: 12,
		CouponRatePercent:     5,
	}}, 30)

	res := calibrate.New(calibrate.DefaultSettings(), quietLogger()).Calibrate(bonds, valDate)
	if res.Status != calibrate.StatusNoLiquidBonds {
		t.Fatalf("status: got %s", res.Status)
	}
	if res.Params != calibrate.InitialGuess {
		t.Fatalf("params: got %+v want initial guess", res.Params)
	}
	if res.Converged || res.Evaluations != 0 {
		t.Fatalf("optimizer should not run: %+v", res)
	}
	if !errors.Is(res.Err(), calibrate.ErrNoCalibrationData) {
		t.Fatalf("Err: got %v", res.Err())
	}
}

func TestCalibrate_IterationCapDegradesGracefully(t *testing.T) {
	t.Parallel()

	truth := curve.Params{Beta0: 0.12, Beta1: -0.04, Beta2: 0.05, Beta3: 0.02, Tau1: 3.0, Tau2: 0.5}
	bonds := portfolio(t, truth)

	settings := calibrate.DefaultSettings()
	settings.MaxIterations = 3
	settings.Fallback = false
	res := calibrate.New(settings, quietLogger()).Calibrate(bonds, valDate)

	if res.Converged || res.Status != calibrate.StatusNotConverged {
		t.Fatalf("expected unconverged status, got %s (%s)", res.Status, res.OptimizerStatus)
	}
	if !calibrate.DefaultBounds.Contains(res.Params) {
		t.Fatalf("params outside bounds: %+v", res.Params)
	}
	if res.Objective > res.InitialObjective {
		t.Fatalf("best-found objective %g worse than initial %g", res.Objective, res.InitialObjective)
	}
}

func TestCalibrate_BFGSMethod(t *testing.T) {
	t.Parallel()

	truth := curve.Params{Beta0: 0.07, Beta1: -0.03, Beta2: 0.01, Beta3: 0.0, Tau1: 1.8, Tau2: 3.5}
	bonds := portfolio(t, truth)

	settings := calibrate.DefaultSettings()
	settings.Method = calibrate.MethodBFGS
	res := calibrate.New(settings, quietLogger()).Calibrate(bonds, valDate)
	if !calibrate.DefaultBounds.Contains(res.Params) {
		t.Fatalf("params outside bounds: %+v", res.Params)
	}
	if res.Objective > res.InitialObjective {
		t.Fatalf("objective got worse: %g > %g", res.Objective, res.InitialObjective)
	}
	if res.Method != calibrate.MethodBFGS {
		t.Fatalf("method: got %q", res.Method)
	}
}

func TestObjective_IgnoresIlliquidBonds(t *testing.T) {
	t.Parallel()

	liquidIn := model.BondInput{
		PurchasePrice:         98,
		PurchaseDate:          valDate,
		MaturityDate:          valDate.AddDate(2, 0, 0),
		CouponFrequencyMonths: 6,
		CouponRatePercent:     5,
	}
	illiquidIn := liquidIn
	illiquidIn.PurchaseDate = valDate.AddDate(0, -3, 0)
	illiquidIn.PurchasePrice = 10

	only := buildBonds(t, []model.BondInput{liquidIn}, 30)
	both := buildBonds(t, []model.BondInput{liquidIn, illiquidIn}, 30)

	p := calibrate.InitialGuess
	if a, b := calibrate.Objective(only, valDate)(p), calibrate.Objective(both, valDate)(p); a != b {
		t.Fatalf("illiquid bond changed J: %g vs %g", a, b)
	}

	res := valuation.Value(only[0], p, valDate, 0)
	want := (res.Price - 98) * (res.Price - 98) / res.Duration
	if got := calibrate.Objective(only, valDate)(p); math.Abs(got-want) > 1e-12 {
		t.Fatalf("J: got %g want %g", got, want)
	}
}

func TestObjective_OneDayBondWeight(t *testing.T) {
	t.Parallel()

	bonds := buildBonds(t, []model.BondInput{{
		PurchasePrice:         50,
		PurchaseDate:          valDate,
		MaturityDate:          valDate.AddDate(0, 0, 1),
		CouponFrequencyMonths: 12,
		CouponRatePercent:     0,
	}}, 30)
	p := calibrate.InitialGuess
	res := valuation.Value(bonds[0], p, valDate, 0)
	want := (res.Price - 50) * (res.Price - 50) / calibrate.MinWeightDuration
	if got := calibrate.Objective(bonds, valDate)(p); math.Abs(got-want)/want > 1e-12 {
		t.Fatalf("J: got %g want %g", got, want)
	}
}

func TestBounds(t *testing.T) {
	t.Parallel()

	b := calibrate.DefaultBounds
	if err := b.Validate(); err != nil {
		t.Fatalf("default bounds invalid: %v", err)
	}
	if !b.Contains(calibrate.InitialGuess) {
		t.Fatalf("initial guess outside default bounds")
	}
	p := b.Project([]float64{-1, 1, -1, 1, 0, 100})
	want := curve.Params{Beta0: 0, Beta1: 0.3, Beta2: -0.3, Beta3: 0.3, Tau1: 0.1, Tau2: 10}
	if p != want {
		t.Fatalf("Project: got %+v want %+v", p, want)
	}

	bad := b
	bad.Lower[4] = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("zero tau lower bound should be rejected")
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	if err := calibrate.DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	s := calibrate.DefaultSettings()
	s.Method = "simulated-annealing"
	if err := s.Validate(); err == nil {
		t.Fatalf("unknown method should be rejected")
	}
}
