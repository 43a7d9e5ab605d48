package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bond-pricer/internal/api/models"
	"bond-pricer/internal/data"
	"bond-pricer/internal/pricer"
)

// MaxUploadBytes bounds CSV request bodies.
const MaxUploadBytes = 8 << 20

// ValuationHandler handles valuation requests
type ValuationHandler struct {
	engine       *pricer.Engine
	base         pricer.Config
	store        *data.ResultStore
	compareLimit int
	logger       *slog.Logger
}

// NewValuationHandler creates a handler pricing against base. Runs are kept
// in store for later retrieval; store may be nil.
func NewValuationHandler(engine *pricer.Engine, base pricer.Config, store *data.ResultStore, compareLimit int, logger *slog.Logger) *ValuationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValuationHandler{
		engine:       engine,
		base:         base,
		store:        store,
		compareLimit: compareLimit,
		logger:       logger,
	}
}

// Run handles POST /api/v1/valuations
func (h *ValuationHandler) Run(c *gin.Context) {
	var req models.ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	cfg, err := applyOptions(h.base, req.ValuationDate, req.Options)
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	inputs, err := data.ToInputs(req.Bonds)
	if err != nil {
		abortWithRunError(c, err)
		return
	}

	res, err := h.engine.Run(inputs, cfg)
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	h.keep(res)
	c.JSON(http.StatusOK, models.NewValuationResponse(res))
}

// RunCSV handles POST /api/v1/valuations/csv. The body is a bond CSV file,
// or a workbook when sent as XLSXContentType; options come from the query
// string. format=csv returns the valuation table
// as CSV instead of JSON.
func (h *ValuationHandler) RunCSV(c *gin.Context) {
	var q models.CSVQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	opts, err := csvOptions(q)
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	cfg, err := applyOptions(h.base, q.ValuationDate, opts)
	if err != nil {
		abortWithRunError(c, err)
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)
	parse := data.ParseBondsCSV
	if c.ContentType() == data.XLSXContentType {
		parse = data.ParseBondsXLSX
	}
	inputs, err := parse(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE",
				fmt.Sprintf("upload body exceeds %d bytes", MaxUploadBytes), nil)
			return
		}
		abortWithRunError(c, err)
		return
	}

	res, err := h.engine.Run(inputs, cfg)
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	h.keep(res)

	if strings.EqualFold(q.Format, "csv") {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="valuation-%s.csv"`, res.RunID))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := pricer.EncodeValuationCSV(c.Writer, res); err != nil {
			h.logger.Error("write csv response", slog.String("run_id", res.RunID), slog.Any("err", err))
		}
		return
	}
	c.JSON(http.StatusOK, models.NewValuationResponse(res))
}

// Get handles GET /api/v1/valuations/:id
func (h *ValuationHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if h.store == nil {
		abortWithError(c, http.StatusNotImplemented, "NOT_IMPLEMENTED", "result storage is disabled", nil)
		return
	}
	res, ok := h.store.Get(id)
	if !ok {
		abortWithError(c, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("valuation %q not found or expired", id), nil)
		return
	}
	c.JSON(http.StatusOK, models.NewValuationResponse(res))
}

// Compare handles POST /api/v1/valuations/compare
func (h *ValuationHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if len(req.Scenarios) == 0 {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "at least one scenario is required", nil)
		return
	}
	base, err := applyOptions(h.base, req.ValuationDate, req.Base)
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	inputs, err := data.ToInputs(req.Bonds)
	if err != nil {
		abortWithRunError(c, err)
		return
	}

	scenarios := make([]pricer.Scenario, 0, len(req.Scenarios))
	for _, s := range req.Scenarios {
		sc := pricer.Scenario{Name: s.Name, LiquidityDays: s.LiquidityDays, LiquiditySpread: s.LiquiditySpread}
		if err := sc.Apply(base).Validate(); err != nil {
			abortWithError(c, http.StatusBadRequest, "INVALID_CONFIG",
				fmt.Sprintf("scenario %q: %v", s.Name, err), nil)
			return
		}
		scenarios = append(scenarios, sc)
	}

	results, err := h.engine.Compare(c.Request.Context(), inputs, base, scenarios, h.compareLimit)
	if err != nil {
		abortWithRunError(c, err)
		return
	}

	resp := models.CompareResponse{Comparison: make([]models.ScenarioResponse, 0, len(results))}
	for _, r := range results {
		h.keep(r.Result)
		resp.Comparison = append(resp.Comparison, models.ScenarioResponse{Name: r.Name, Result: models.NewValuationResponse(r.Result)})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ValuationHandler) keep(res *pricer.Result) {
	if h.store != nil {
		h.store.Put(res)
	}
}
