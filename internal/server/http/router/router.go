package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/globalinvoice/invoiceflow/internal/server/http/handlers"
	"github.com/globalinvoice/invoiceflow/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.InvoiceFlowFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	invoiceHandler := handlers.NewInvoiceHandler(facade)
	settingsHandler := handlers.NewSettingsHandler(facade)
	logHandler := handlers.NewLogHandler(facade)

	api := engine.Group("/api")
	api.POST("/invoices", invoiceHandler.Submit)
	api.GET("/invoices", invoiceHandler.List)
	api.GET("/invoices/stats", invoiceHandler.Stats)
	api.POST("/invoices/notifications", invoiceHandler.Notify)
	api.GET("/invoices/:id", invoiceHandler.Get)
	api.POST("/invoices/:id/pdf", invoiceHandler.GeneratePDF)
	api.GET("/invoices/:id/pdf", invoiceHandler.GetPDF)
	api.GET("/config", settingsHandler.Get)
	api.PUT("/config", settingsHandler.Update)
	api.GET("/logs", logHandler.List)

	return engine
}
