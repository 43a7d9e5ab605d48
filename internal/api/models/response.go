package models

import (
	"github.com/shopspring/decimal"

	"bond-pricer/internal/curve"
)

// ValuationResponse represents the results bundle of one run.
type ValuationResponse struct {
	ID            string             `json:"id"`
	ValuationDate string             `json:"valuation_date"`
	Liquidity     LiquiditySummary   `json:"liquidity"`
	Calibration   CalibrationSummary `json:"calibration"`
	Params        curve.Params       `json:"params"`
	Curve         []curve.Point      `json:"curve"`
	Fit           FitResponse        `json:"fit"`
	Bonds         []BondValuation    `json:"bonds"`
}

// FitResponse reports pricing errors (model - market) by liquidity.
type FitResponse struct {
	All      ErrorStats `json:"all"`
	Liquid   ErrorStats `json:"liquid"`
	Illiquid ErrorStats `json:"illiquid"`
}

type ErrorStats struct {
	Count        int     `json:"count"`
	MeanError    float64 `json:"mean_error"`
	RMSE         float64 `json:"rmse"`
	MaxAbsError  float64 `json:"max_abs_error"`
	P05Error     float64 `json:"p05_error"`
	P95Error     float64 `json:"p95_error"`
	MeanDuration float64 `json:"mean_duration"`
}

type LiquiditySummary struct {
	Days        int     `json:"days"`
	Spread      float64 `json:"spread"`
	LiquidCount int     `json:"liquid_count"`
}

// CalibrationSummary reports how the curve was fitted.
type CalibrationSummary struct {
	Status           string   `json:"status"` // "converged", "not_converged", "no_liquid_bonds"
	Converged        bool     `json:"converged"`
	OptimizerStatus  string   `json:"optimizer_status,omitempty"`
	Method           string   `json:"method"`
	Objective        *float64 `json:"objective,omitempty"`
	InitialObjective *float64 `json:"initial_objective,omitempty"`
	Iterations       int      `json:"iterations"`
	Evaluations      int      `json:"evaluations"`
	LiquidBonds      int      `json:"liquid_bonds"`
	RuntimeMS        int64    `json:"runtime_ms"`
}

// BondValuation is one row of the valuation table.
type BondValuation struct {
	Index           int             `json:"index"`
	Name            string          `json:"name"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	PurchaseDate    string          `json:"purchase_date"`
	MaturityDate    string          `json:"maturity_date"`
	CouponFrequency int             `json:"coupon_frequency"`
	CouponRate      decimal.Decimal `json:"coupon_rate"`
	CouponCount     int             `json:"coupon_count"`
	HoldingDays     int             `json:"holding_days"`
	Liquid          bool            `json:"liquid"`
	Price           decimal.Decimal `json:"price"`
	Duration        decimal.Decimal `json:"duration"`
	PricingError    decimal.Decimal `json:"pricing_error"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ScenarioResponse `json:"comparison"`
}

type ScenarioResponse struct {
	Name   string            `json:"name"`
	Result ValuationResponse `json:"result"`
}

// CurveDefaultsResponse describes the calibration search space.
type CurveDefaultsResponse struct {
	InitialGuess     curve.Params `json:"initial_guess"`
	LowerBounds      curve.Params `json:"lower_bounds"`
	UpperBounds      curve.Params `json:"upper_bounds"`
	ReportMaturities []float64    `json:"report_maturities"`
	LiquidityDays    int          `json:"liquidity_days"`
	LiquiditySpread  float64      `json:"liquidity_spread"`
	MaxSpread        float64      `json:"max_liquidity_spread"`
}

// SpotResponse is the curve evaluated at requested maturities.
type SpotResponse struct {
	Params    curve.Params  `json:"params"`
	ShortRate float64       `json:"short_rate"`
	Curve     []curve.Point `json:"curve"`
}

// ProblemDetail is one input problem in an INVALID_INPUT error.
type ProblemDetail struct {
	Row    int    `json:"row,omitempty"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
