package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"bond-pricer/internal/api/models"
	"bond-pricer/internal/calibrate"
	"bond-pricer/internal/curve"
	"bond-pricer/internal/pricer"
)

// CurveHandler serves curve metadata and evaluation.
type CurveHandler struct {
	base pricer.Config
}

func NewCurveHandler(base pricer.Config) *CurveHandler {
	return &CurveHandler{base: base}
}

// Defaults handles GET /api/v1/curve/defaults
func (h *CurveHandler) Defaults(c *gin.Context) {
	lower, _ := curve.ParamsFromVector(calibrate.DefaultBounds.Lower[:])
	upper, _ := curve.ParamsFromVector(calibrate.DefaultBounds.Upper[:])
	grid := h.base.ReportMaturities
	if len(grid) == 0 {
		grid = curve.DefaultReportMaturities
	}
	c.JSON(http.StatusOK, models.CurveDefaultsResponse{
		InitialGuess:     calibrate.InitialGuess,
		LowerBounds:      lower,
		UpperBounds:      upper,
		ReportMaturities: slices.Clone(grid),
		LiquidityDays:    h.base.LiquidityDays,
		LiquiditySpread:  h.base.LiquiditySpread,
		MaxSpread:        pricer.MaxLiquiditySpread,
	})
}

// Spot handles GET /api/v1/curve/spot?params=b0,b1,b2,b3,t1,t2&maturities=1,2,5
// Without params the initial guess is evaluated.
func (h *CurveHandler) Spot(c *gin.Context) {
	p := calibrate.InitialGuess
	if raw := c.Query("params"); raw != "" {
		parsed, err := curve.ParseParams(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "INVALID_PARAMS", err.Error(), nil)
			return
		}
		p = parsed
	}
	grid := curve.DefaultReportMaturities
	if raw := c.Query("maturities"); raw != "" {
		parsed, err := curve.ParseFloats(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "INVALID_MATURITIES", err.Error(), nil)
			return
		}
		grid = parsed
	}
	c.JSON(http.StatusOK, models.SpotResponse{
		Params:    p,
		ShortRate: p.ShortRate(),
		Curve:     curve.Sample(grid, p),
	})
}
