package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bond-pricer/internal/api/models"
	"bond-pricer/internal/model"
)

func abortWithError(c *gin.Context, status int, code, message string, details map[string]any) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// abortWithRunError maps an engine error onto a response. Input problems
// are the caller's fault; everything else is ours.
func abortWithRunError(c *gin.Context, err error) {
	var ie *model.InputError
	if errors.As(err, &ie) {
		problems := make([]models.ProblemDetail, 0, len(ie.Problems))
		for _, p := range ie.Problems {
			problems = append(problems, models.ProblemDetail{Row: p.Row, Field: p.Field, Value: p.Value, Reason: p.Reason})
		}
		abortWithError(c, http.StatusBadRequest, "INVALID_INPUT", ie.Error(), map[string]any{"problems": problems})
		return
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		abortWithError(c, http.StatusBadRequest, "INVALID_CSV", err.Error(), nil)
		return
	}
	if errors.Is(err, errInvalidOptions) {
		abortWithError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error(), nil)
		return
	}
	abortWithError(c, http.StatusInternalServerError, "VALUATION_ERROR", err.Error(), nil)
}
