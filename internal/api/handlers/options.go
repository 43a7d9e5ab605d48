package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bond-pricer/internal/api/models"
	"bond-pricer/internal/data"
	"bond-pricer/internal/pricer"
)

var errInvalidOptions = errors.New("invalid options")

// applyOptions overlays request options on the server's base config and
// validates the result.
func applyOptions(base pricer.Config, valuationDate string, o models.ValuationOptions) (pricer.Config, error) {
	cfg := base
	if strings.TrimSpace(valuationDate) != "" {
		t, err := data.ParseDate(valuationDate)
		if err != nil {
			return cfg, fmt.Errorf("%w: valuation_date %q %v", errInvalidOptions, valuationDate, err)
		}
		cfg.ValuationDate = t
	}
	if o.LiquidityDays != nil {
		cfg.LiquidityDays = *o.LiquidityDays
	}
	if o.LiquiditySpread != nil {
		cfg.LiquiditySpread = *o.LiquiditySpread
	}
	if len(o.ReportMaturities) > 0 {
		cfg.ReportMaturities = o.ReportMaturities
	}
	if o.CalibrationMethod != "" {
		cfg.Calibration.Method = o.CalibrationMethod
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", errInvalidOptions, err)
	}
	return cfg, nil
}

// csvOptions converts query strings into ValuationOptions.
func csvOptions(q models.CSVQuery) (models.ValuationOptions, error) {
	var o models.ValuationOptions
	if q.LiquidityDays != "" {
		n, err := strconv.Atoi(q.LiquidityDays)
		if err != nil {
			return o, fmt.Errorf("%w: liquidity_days %q is not a whole number", errInvalidOptions, q.LiquidityDays)
		}
		o.LiquidityDays = &n
	}
	if q.LiquiditySpread != "" {
		f, err := strconv.ParseFloat(q.LiquiditySpread, 64)
		if err != nil {
			return o, fmt.Errorf("%w: liquidity_spread %q is not a number", errInvalidOptions, q.LiquiditySpread)
		}
		o.LiquiditySpread = &f
	}
	return o, nil
}
