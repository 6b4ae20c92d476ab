package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ledger-service/internal/analytics"
	"ledger-service/internal/handler"
	mid "ledger-service/internal/middleware"
	"ledger-service/internal/pricing"
	"ledger-service/internal/store"
	"ledger-service/pkg/bus"
	"ledger-service/pkg/config"
	"ledger-service/pkg/jwtutil"
	"ledger-service/pkg/kv"
	"ledger-service/pkg/logger"
	"ledger-service/prometheus"
)

func main() {
	// Load configuration (.env is read inside if present)
	appConfig, err := config.Load("ledger-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting ledger-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port),
		zap.String("store_backend", appConfig.Store.Backend))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Select the persistence backend
	var backend kv.Store
	switch appConfig.Store.Backend {
	case "redis":
		backend, err = kv.NewRedisStore(&appConfig.Redis)
		if err != nil {
			log.Fatal("Failed to initialize Redis store", zap.Error(err))
		}
		log.Info("Redis store connected", zap.String("addr", appConfig.Redis.Addr))
	case "postgres":
		backend, err = kv.NewPostgresStore(appConfig)
		if err != nil {
			log.Fatal("Failed to initialize Postgres store", zap.Error(err))
		}
		log.Info("Postgres store connected", zap.String("db_name", appConfig.DB.DBName))
	default:
		backend = kv.NewMemoryStore()
		log.Warn("Using in-memory store, data will not survive restarts")
	}

	// Wire the entity store, change bus and live dashboard view
	changeBus := bus.New()
	entityStore := store.New(backend, changeBus, appConfig.Store.KeyPrefix, log)
	summaryView := analytics.NewSummaryView(entityStore, changeBus, log)

	policy := pricing.Policy{ReferenceBonus: appConfig.Pricing.ReferenceBonus}
	h := handler.New(entityStore, summaryView, policy)

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

	// Model API routes
	modelAPI := e.Group("/api/models", mid.AuthMiddleware)
	modelAPI.GET("", h.ListModels)
	modelAPI.POST("", h.CreateModel)
	modelAPI.PUT("/:id", h.UpdateModel)
	modelAPI.DELETE("/:id", h.DeleteModel)

	// Dealer API routes
	dealerAPI := e.Group("/api/dealers", mid.AuthMiddleware)
	dealerAPI.GET("", h.ListDealers)
	dealerAPI.POST("", h.CreateDealer)
	dealerAPI.PUT("/:id", h.UpdateDealer)
	dealerAPI.DELETE("/:id", h.DeleteDealer)

	// Customer API routes
	customerAPI := e.Group("/api/customers", mid.AuthMiddleware)
	customerAPI.GET("", h.ListCustomers)
	customerAPI.GET("/quote", h.QuoteSale)
	customerAPI.POST("", h.CreateCustomer)
	customerAPI.PUT("/:id", h.UpdateCustomer)
	customerAPI.DELETE("/:id", h.DeleteCustomer)

	// Dashboard API routes
	dashboardAPI := e.Group("/api/dashboard", mid.AuthMiddleware)
	dashboardAPI.GET("/summary", h.GetSummary)
	dashboardAPI.GET("/trend", h.GetTrend)
	dashboardAPI.GET("/distribution", h.GetDistribution)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
