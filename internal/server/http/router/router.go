package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polkiloo/palmwine/internal/server/http/handlers"
	"github.com/polkiloo/palmwine/internal/server/http/middleware"
)

const maxRequestBody = 1 << 20

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ShopFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(maxRequestBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade, logger)
	orderHandler := handlers.NewOrderHandler(facade, logger)
	paymentHandler := handlers.NewPaymentHandler(facade, logger)
	catalogHandler := handlers.NewCatalogHandler(facade, logger)
	discountHandler := handlers.NewDiscountHandler(facade, logger)
	invoiceHandler := handlers.NewInvoiceHandler(facade, logger)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.GET("/stock", catalogHandler.Catalog)
	api.POST("/delivery/quote", catalogHandler.Quote)
	api.POST("/discounts/validate", discountHandler.Validate)
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders/:number", orderHandler.Get)
	api.POST("/orders/:number/payment", paymentHandler.Initialize)
	api.GET("/payments/verify", paymentHandler.Verify)
	api.POST("/payments/webhook", paymentHandler.Webhook)
	api.POST("/admin/login", authHandler.Login)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired(facade))
	admin.GET("/orders", orderHandler.List)
	admin.GET("/orders/:number", orderHandler.Get)
	admin.PATCH("/orders/:number/status", orderHandler.UpdateStatus)
	admin.PATCH("/orders/:number/payment-status", orderHandler.UpdatePaymentStatus)
	admin.POST("/orders/:number/cancel", orderHandler.Cancel)

	admin.GET("/stock", catalogHandler.Snapshot)
	admin.PUT("/stock", catalogHandler.Reset)
	admin.POST("/stock/reserve", catalogHandler.Reserve)
	admin.POST("/stock/release", catalogHandler.Release)

	admin.GET("/discounts", discountHandler.List)
	admin.POST("/discounts", discountHandler.Create)
	admin.GET("/discounts/:code", discountHandler.Get)
	admin.PUT("/discounts/:code", discountHandler.Update)
	admin.DELETE("/discounts/:code", discountHandler.Delete)

	admin.GET("/invoices", invoiceHandler.List)
	admin.POST("/invoices", invoiceHandler.Create)
	admin.GET("/invoices/:id", invoiceHandler.Get)
	admin.PUT("/invoices/:id", invoiceHandler.Update)
	admin.PATCH("/invoices/:id/status", invoiceHandler.UpdateStatus)

	return engine
}
