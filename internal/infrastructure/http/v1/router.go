// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"fakturo/internal/core/numerator"
	"fakturo/internal/domain/auth"
	"fakturo/internal/domain/catalogs/company"
	"fakturo/internal/domain/catalogs/currency"
	"fakturo/internal/domain/catalogs/customer"
	"fakturo/internal/domain/documents/invoice"
	"fakturo/internal/domain/documents/quote"
	"fakturo/internal/domain/reports"
	"fakturo/internal/infrastructure/http/v1/handlers"
	"fakturo/internal/infrastructure/http/v1/middleware"
	"fakturo/internal/infrastructure/storage/postgres"
	"fakturo/internal/infrastructure/storage/postgres/catalog_repo"
	"fakturo/internal/infrastructure/storage/postgres/document_repo"
	"fakturo/internal/infrastructure/storage/postgres/report_repo"
	"fakturo/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (health checks, idempotency)
	Pool *postgres.Pool

	// TxManager drives transactional execution for all repositories
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Allocator issues document numbers at issuance
	Allocator numerator.Allocator

	// Snapshots archives documents at lifecycle events; optional
	Snapshots *postgres.SnapshotService

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool

	// IdempotencyTTL is how long completed keys are replayable
	IdempotencyTTL time.Duration
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

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Protected endpoints
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		// Apply idempotency middleware for mutating operations
		if cfg.IdempotencyEnabled {
			ttl := cfg.IdempotencyTTL
			if ttl <= 0 {
				ttl = 10 * time.Minute
			}
			store := postgres.NewIdempotencyStore(cfg.Pool, cfg.TxManager, ttl)
			protected.Use(middleware.Idempotency(store))
		}

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- COMPANIES ---
	{
		repo := catalog_repo.NewCompanyRepo(cfg.TxManager)
		service := company.NewService(repo, cfg.TxManager)
		handler := handlers.NewCompanyHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/companies"), handler)
	}

	// --- CUSTOMERS ---
	{
		repo := catalog_repo.NewCustomerRepo(cfg.TxManager)
		service := customer.NewService(repo, cfg.TxManager)
		handler := handlers.NewCustomerHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/customers"), handler)
	}

	// --- CURRENCIES ---
	{
		repo := catalog_repo.NewCurrencyRepo(cfg.TxManager)
		service := currency.NewService(repo, cfg.TxManager)
		handler := handlers.NewCurrencyHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/currencies"), handler)
	}
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docsGroup := rg.Group("/documents")
	baseHandler := handlers.NewBaseHandler()

	invoiceRepo := document_repo.NewInvoiceRepo(cfg.TxManager)
	invoiceService := invoice.NewService(invoiceRepo, cfg.Allocator, cfg.TxManager)

	quoteRepo := document_repo.NewQuoteRepo(cfg.TxManager)
	quoteService := quote.NewService(quoteRepo, cfg.Allocator, cfg.TxManager, invoiceService)

	if cfg.Snapshots != nil {
		invoiceService.WithArchiver(cfg.Snapshots)
		quoteService.WithArchiver(cfg.Snapshots)
	}

	// --- INVOICES ---
	{
		handler := handlers.NewInvoiceHandler(baseHandler, invoiceService, cfg.Snapshots)
		RegisterDocumentRoutes(docsGroup.Group("/invoices"), handler)
	}

	// --- QUOTES ---
	{
		handler := handlers.NewQuoteHandler(baseHandler, quoteService, cfg.Snapshots)
		RegisterDocumentRoutes(docsGroup.Group("/quotes"), handler)
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	reportsGroup := rg.Group("/reports")
	baseHandler := handlers.NewBaseHandler()

	reportRepo := report_repo.NewReportRepo(cfg.TxManager)
	reportService := reports.NewService(reportRepo)
	reportHandler := handlers.NewReportsHandler(baseHandler, reportService)

	reportsGroup.GET("/dashboard", reportHandler.GetDashboard)
	reportsGroup.GET("/journal", reportHandler.GetJournal)
}
