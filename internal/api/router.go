package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"bond-pricer/internal/api/handlers"
	"bond-pricer/internal/api/middleware"
	"bond-pricer/internal/data"
	"bond-pricer/internal/pricer"
)

// Options wires the router's dependencies.
type Options struct {
	Base         pricer.Config
	Store        *data.ResultStore
	CORSOrigins  []string
	CompareLimit int
	Logger       *slog.Logger
}

// NewRouter builds the HTTP API.
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(opts.CORSOrigins))

	valuations := handlers.NewValuationHandler(pricer.New(logger), opts.Base, opts.Store, opts.CompareLimit, logger)
	curves := handlers.NewCurveHandler(opts.Base)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/valuations", valuations.Run)
		v1.POST("/valuations/csv", valuations.RunCSV)
		v1.POST("/valuations/compare", valuations.Compare)
		v1.GET("/valuations/:id", valuations.Get)

		v1.GET("/curve/defaults", curves.Defaults)
		v1.GET("/curve/spot", curves.Spot)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
