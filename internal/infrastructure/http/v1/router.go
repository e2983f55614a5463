// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	appctx "sklad/internal/core/context"
	"sklad/internal/domain/auth"
	"sklad/internal/domain/catalogs/district"
	"sklad/internal/domain/catalogs/product"
	"sklad/internal/domain/catalogs/shop"
	"sklad/internal/domain/documents/delivery"
	"sklad/internal/domain/registers/shopledger"
	"sklad/internal/domain/registers/stock"
	"sklad/internal/domain/reports"
	"sklad/internal/infrastructure/http/v1/handlers"
	"sklad/internal/infrastructure/http/v1/middleware"
	"sklad/internal/infrastructure/storage/postgres"
	"sklad/internal/infrastructure/storage/postgres/catalog_repo"
	"sklad/internal/infrastructure/storage/postgres/document_repo"
	"sklad/internal/infrastructure/storage/postgres/register_repo"
	"sklad/internal/infrastructure/storage/postgres/report_repo"
	"sklad/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager

	Logger *logger.Logger

	// JWTValidator validates access tokens on protected routes.
	JWTValidator middleware.JWTValidator

	// AuthService handles magic-link login and token rotation.
	AuthService *auth.Service

	// AuditService is optional; audit routes are skipped when nil.
	AuditService *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// Repositories share the injected transaction manager.
	districtRepo := catalog_repo.NewDistrictRepo(cfg.TxManager)
	shopRepo := catalog_repo.NewShopRepo(cfg.TxManager)
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	stockRepo := register_repo.NewStockRepo(cfg.TxManager)
	ledgerRepo := register_repo.NewShopLedgerRepo(cfg.TxManager)
	deliveryRepo := document_repo.NewDeliveryRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)

	districtService := district.NewService(districtRepo)
	shopService := shop.NewService(shopRepo, districtRepo)
	productService := product.NewService(productRepo)
	stockService := stock.NewService(stockRepo, productRepo, shopRepo)
	ledgerService := shopledger.NewService(ledgerRepo, shopRepo)
	deliveryService := delivery.NewService(
		deliveryRepo, productRepo, shopRepo, districtRepo,
		stockRepo, stockService, ledgerService, cfg.TxManager,
	)
	reportService := reports.NewService(reportRepo)

	districtHandler := handlers.NewDistrictHandler(baseHandler, districtService, cfg.AuditService)
	shopHandler := handlers.NewShopHandler(baseHandler, shopService, cfg.AuditService)
	productHandler := handlers.NewProductHandler(baseHandler, productService, cfg.AuditService)
	stockHandler := handlers.NewStockHandler(baseHandler, stockService, cfg.AuditService)
	ledgerHandler := handlers.NewShopLedgerHandler(baseHandler, ledgerService, cfg.AuditService)
	deliveryHandler := handlers.NewDeliveryHandler(baseHandler, deliveryService, cfg.AuditService)
	reportsHandler := handlers.NewReportsHandler(baseHandler, reportService)
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	apiV1 := router.Group("/api/v1")
	{
		// Public auth endpoints
		apiV1.GET("/auth/magic", authHandler.Magic)
		apiV1.POST("/auth/refresh", authHandler.Refresh)

		// Everything else needs a valid token
		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		// Reads shared by both roles
		protected.GET("/catalog/districts", districtHandler.List)
		protected.GET("/catalog/districts/:id", districtHandler.Get)
		protected.GET("/catalog/shops", shopHandler.List)
		protected.GET("/catalog/shops/:id", shopHandler.Get)
		protected.GET("/catalog/products", productHandler.List)
		protected.GET("/catalog/products/:id", productHandler.Get)

		// Delivery posting is the dealer's operation; admins get 403.
		protected.POST("/deliveries", middleware.RequireRole(appctx.RoleDealer), deliveryHandler.Create)
		protected.GET("/deliveries", deliveryHandler.List)
		protected.GET("/deliveries/:id", deliveryHandler.Get)

		// Admin-only management and reporting
		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())

		admin.POST("/catalog/districts", districtHandler.Create)
		admin.DELETE("/catalog/districts/:id", districtHandler.Delete)
		admin.POST("/catalog/shops", shopHandler.Create)
		admin.DELETE("/catalog/shops/:id", shopHandler.Delete)
		admin.POST("/catalog/products", productHandler.Create)
		admin.PUT("/catalog/products/:id/price", productHandler.UpdatePrice)
		admin.PUT("/catalog/products/:id/active", productHandler.SetActive)
		admin.DELETE("/catalog/products/:id", productHandler.Delete)

		admin.POST("/stock/inbound", stockHandler.Inbound)
		admin.GET("/stock/balances", stockHandler.Balances)
		admin.GET("/stock/movements", stockHandler.Movements)

		admin.GET("/shops/:id/ledger", ledgerHandler.History)
		admin.POST("/shops/:id/ledger/sale", ledgerHandler.RecordSale)
		admin.POST("/shops/:id/ledger/payment", ledgerHandler.RecordPayment)
		admin.GET("/balances", ledgerHandler.Balances)

		admin.GET("/reports/summary", reportsHandler.Summary)
		admin.GET("/reports/deliveries-by-shop", reportsHandler.DeliveriesByShop)
		admin.GET("/reports/deliveries-by-pay-kind", reportsHandler.DeliveriesByPayKind)
		admin.GET("/reports/delivery-detail", reportsHandler.DeliveryDetail)
		admin.GET("/reports/product-breakdown", reportsHandler.ProductBreakdown)

		admin.GET("/auth/users", authHandler.ListUsers)
		admin.GET("/auth/make-link", authHandler.MakeLink)

		if cfg.AuditService != nil {
			auditHandler := handlers.NewAuditHandler(baseHandler, cfg.AuditService)
			admin.GET("/audit", auditHandler.Recent)
		}
	}

	return router
}
