package models

import "bond-pricer/internal/data"

// ValuationRequest is the body of POST /api/v1/valuations.
type ValuationRequest struct {
	ValuationDate string            `json:"valuation_date,omitempty"` // YYYY-MM-DD; default: server config
	Options       ValuationOptions  `json:"options,omitempty"`
	Bonds         []data.BondRecord `json:"bonds" binding:"required"`
}

// ValuationOptions overrides the server's pricing defaults for one run.
// Nil fields keep the server value.
type ValuationOptions struct {
	LiquidityDays     *int      `json:"liquidity_days,omitempty"`
	LiquiditySpread   *float64  `json:"liquidity_spread,omitempty"`
	ReportMaturities  []float64 `json:"report_maturities,omitempty"`
	CalibrationMethod string    `json:"calibration_method,omitempty"` // "nelder-mead" or "bfgs"
}

// CompareRequest represents a request to value one portfolio under several
// liquidity scenarios.
type CompareRequest struct {
	ValuationDate string            `json:"valuation_date,omitempty"`
	Base          ValuationOptions  `json:"base,omitempty"`
	Bonds         []data.BondRecord `json:"bonds" binding:"required"`
	Scenarios     []ScenarioRequest `json:"scenarios" binding:"required"`
}

// ScenarioRequest defines one variation of the base options.
type ScenarioRequest struct {
	Name            string   `json:"name" binding:"required"`
	LiquidityDays   *int     `json:"liquidity_days,omitempty"`
	LiquiditySpread *float64 `json:"liquidity_spread,omitempty"`
}

// CSVQuery carries the options of POST /api/v1/valuations/csv.
type CSVQuery struct {
	ValuationDate   string `form:"valuation_date"`
	LiquidityDays   string `form:"liquidity_days"`
	LiquiditySpread string `form:"liquidity_spread"`
	Format          string `form:"format"` // "json" (default) or "csv"
}
