package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/config"
	"github.com/prasadnk/dairydesk/internal/server/handlers"
)

// Handlers groups the HTTP adapters wired into the engine.
type Handlers struct {
	Production  *handlers.ProductionHandler
	Supplier    *handlers.SupplierHandler
	Procurement *handlers.ProcurementHandler
	Export      *handlers.ExportHandler
	Report      *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, corsCfg config.CORSConfig, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsCfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/production", h.Production.List)
	r.POST("/production", h.Production.Create)
	r.DELETE("/production", h.Production.Delete)
	r.GET("/production/history", h.Production.History)
	r.GET("/production/export/csv", h.Export.ProductionCSV)
	r.GET("/production/export/pdf", h.Export.ProductionPDF)

	r.GET("/supplier", h.Supplier.List)
	r.POST("/supplier", h.Supplier.Create)
	r.PUT("/supplier", h.Supplier.Update)
	r.DELETE("/supplier", h.Supplier.Delete)

	r.GET("/supplier/procurement", h.Procurement.ListBySupplier)
	r.POST("/supplier/procurement", h.Procurement.Create)
	r.GET("/supplier/procurement/history", h.Procurement.History)
	r.GET("/supplier/procurement/export/csv", h.Export.ProcurementCSV)
	r.GET("/supplier/procurement/export/pdf", h.Export.ProcurementPDF)

	r.GET("/reports/daily", h.Report.DailySummaries)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
