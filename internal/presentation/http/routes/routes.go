package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balcaohq/balcao-api/internal/config"
	domainRepo "github.com/balcaohq/balcao-api/internal/domain/repository"
	"github.com/balcaohq/balcao-api/internal/presentation/http/handler"
	"github.com/balcaohq/balcao-api/internal/presentation/http/middleware"
	"github.com/balcaohq/balcao-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Order   *handler.OrderHandler
	Account *handler.AccountHandler
	Payment *handler.PaymentHandler
	Session *handler.SessionHandler
	Charge  *handler.ChargeHandler
	Report  *handler.ReportHandler
	Store   *handler.StoreHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Provider callbacks are authenticated by shared secret, not JWT
		registerWebhookRoutes(v1, h, deps)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-store rate limiter
		rateLimiter := middleware.NewStoreRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerWebhookRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	webhooks := v1.Group("/webhooks")
	webhooks.Use(middleware.WebhookAuth(deps.Cfg.Pix.WebhookSecret))
	{
		webhooks.POST("/pix", h.Charge.Webhook)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Store settings and lookups
	protected.GET("/store", h.Store.Get)
	protected.PUT("/store/settings", h.Store.UpdateSettings)
	protected.GET("/store/payment-methods", h.Store.ListPaymentMethods)
	protected.GET("/products", h.Store.ListProducts)
	protected.GET("/customers", h.Store.ListCustomers)
	protected.POST("/customers", h.Store.CreateCustomer)

	registerOrderRoutes(protected, h, deps)
	registerAccountRoutes(protected, h)
	registerPaymentRoutes(protected, h, deps)
	registerSessionRoutes(protected, h)
	registerChargeRoutes(protected, h)
	registerReportRoutes(protected, h)
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		// Order creation uses idempotency middleware to prevent duplicates
		orders.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.POST("/:id/items", h.Order.AddItem)
		orders.DELETE("/:id/items/:itemId", h.Order.RemoveItem)
	}
}

func registerAccountRoutes(protected *gin.RouterGroup, h *Handlers) {
	accounts := protected.Group("/accounts")
	{
		accounts.GET("", h.Account.List)
		accounts.POST("", h.Account.Create)
		accounts.GET("/:id", h.Account.Get)
		accounts.GET("/:id/receipt", h.Account.Receipt)
		accounts.GET("/:id/receipt/pdf", h.Account.ReceiptPDF)
		accounts.POST("/:id/receipt/print", h.Account.PrintReceipt)
		accounts.POST("/:id/close", h.Account.Close)
		accounts.POST("/:id/review", h.Account.Review)
		accounts.POST("/:id/reopen", h.Account.Reopen)
		accounts.DELETE("/:id", h.Account.Delete)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	payments := protected.Group("/payments")
	{
		payments.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Payment.Record)
		payments.GET("/:id", h.Payment.Get)
		payments.POST("/refund", h.Payment.Refund)
	}
}

func registerSessionRoutes(protected *gin.RouterGroup, h *Handlers) {
	sessions := protected.Group("/sessions")
	{
		sessions.GET("", h.Session.List)
		sessions.POST("", h.Session.Open)
		sessions.GET("/:id", h.Session.Get)
		sessions.POST("/:id/movements", h.Session.AddMovement)
		sessions.POST("/:id/close", h.Session.Close)
		sessions.GET("/:id/report", h.Session.Report)
		sessions.GET("/:id/report/xlsx", h.Session.ExportXLSX)
		sessions.GET("/:id/report/pdf", h.Session.ExportPDF)
	}
}

func registerChargeRoutes(protected *gin.RouterGroup, h *Handlers) {
	charges := protected.Group("/charges")
	{
		charges.GET("", h.Charge.List)
		charges.POST("", h.Charge.Create)
		charges.GET("/:id", h.Charge.Get)
		charges.GET("/:id/watch", h.Charge.Watch)
		charges.POST("/cancel", h.Charge.Cancel)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/payments", h.Report.PaymentsByForm)
		reports.GET("/sales", h.Report.SalesSummary)
		reports.GET("/products", h.Report.ProductSales)
		reports.GET("/categories", h.Report.CategorySales)
	}
}
