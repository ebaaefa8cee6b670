package main

import (
	"dealer-service/internal/handler"
	mid "dealer-service/internal/middleware"
	"dealer-service/internal/service"
	"dealer-service/pkg/config"
	"dealer-service/pkg/database"
	"dealer-service/pkg/jwtutil"
	"dealer-service/pkg/logger"
	"dealer-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (.env is optional; config falls back to env vars)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting dealer-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	db := database.GetDB()

	// Core services
	stockService := service.NewStockService(db)
	salesService := service.NewSalesService(db)
	perfService := service.NewPerformanceService(db)

	// Handlers
	stockHandler := handler.NewStockHandler(stockService)
	sellHandler := handler.NewSellHandler(salesService)
	perfHandler := handler.NewPerformanceHandler(perfService)
	brandHandler := handler.NewBrandHandler(db)
	modelHandler := handler.NewModelHandler(db)
	dealerHandler := handler.NewDealerHandler(db)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Brand catalog - dealer scoped
	brandAPI := e.Group("/api/brands", mid.AuthMiddleware)
	brandAPI.POST("", brandHandler.Create)
	brandAPI.GET("", brandHandler.List)
	brandAPI.PUT("/:id", brandHandler.Update)
	brandAPI.DELETE("/:brandId", brandHandler.Delete)

	// Model catalog - nested under brands
	brandAPI.POST("/:brandId/models", modelHandler.Create)
	brandAPI.GET("/:brandId/models", modelHandler.List)
	brandAPI.PUT("/:brandId/models/:id", modelHandler.Update)
	e.DELETE("/api/models/:modelId", modelHandler.Delete, mid.AuthMiddleware)

	// Stock ledger
	stockAPI := e.Group("/api/stock", mid.AuthMiddleware)
	stockAPI.POST("", stockHandler.Add)
	stockAPI.GET("", stockHandler.List)
	stockAPI.GET("/summary", stockHandler.Summary)
	stockAPI.GET("/by-brand", stockHandler.ByBrand)

	// Sales ledger
	salesAPI := e.Group("/api/sales", mid.AuthMiddleware)
	salesAPI.POST("", sellHandler.Add)
	salesAPI.GET("", sellHandler.List)

	// Performance reports
	perfAPI := e.Group("/api/performance", mid.AuthMiddleware)
	perfAPI.GET("/brands", perfHandler.Brands)
	perfAPI.GET("/models", perfHandler.Models)
	perfAPI.GET("/brand-models", perfHandler.BrandModels)
	// Cross-tenant report is admin only
	e.GET("/api/performance/dealers", perfHandler.Dealers, mid.AdminMiddleware)

	// Dealer account administration
	adminAPI := e.Group("/api/admin/dealers", mid.AdminMiddleware)
	adminAPI.POST("", dealerHandler.Create)
	adminAPI.GET("", dealerHandler.List)
	adminAPI.PUT("/:id", dealerHandler.Update)
	adminAPI.DELETE("/:id", dealerHandler.Delete)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
