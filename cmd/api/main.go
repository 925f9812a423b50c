package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/balcaohq/balcao-api/internal/application/service"
	"github.com/balcaohq/balcao-api/internal/config"
	"github.com/balcaohq/balcao-api/internal/infrastructure/database"
	"github.com/balcaohq/balcao-api/internal/infrastructure/repository"
	"github.com/balcaohq/balcao-api/internal/presentation/http/handler"
	"github.com/balcaohq/balcao-api/internal/presentation/http/routes"
	"github.com/balcaohq/balcao-api/pkg/notify"
	"github.com/balcaohq/balcao-api/pkg/pixgw"
	"github.com/balcaohq/balcao-api/pkg/printer"
	"github.com/balcaohq/balcao-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	storeRepo := repository.NewStoreRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	sessionRepo := repository.NewCashSessionRepository(db)
	chargeRepo := repository.NewChargeRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize PIX gateway client
	pixClient := pixgw.NewClient(pixgw.Config{
		BaseURL:      cfg.Pix.BaseURL,
		TokenURL:     cfg.Pix.TokenURL,
		ClientID:     cfg.Pix.ClientID,
		ClientSecret: cfg.Pix.ClientSecret,
		Timeout:      cfg.Pix.Timeout,
	})

	// Initialize push notifier
	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.Notify.WebhookURL != "" {
		webhookNotifier, err := notify.NewWebhookNotifier(cfg.Notify.WebhookURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize notifier: %v", err)
		} else {
			notifier = webhookNotifier
		}
	}

	// Initialize till printer
	tillPrinter := printer.FromConfig(cfg.Printer.Address)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	paymentService := service.NewPaymentService(paymentRepo, sessionRepo, pixClient)
	orderService := service.NewOrderService(
		orderRepo, accountRepo, paymentRepo, sessionRepo, counterRepo,
		storeRepo, methodRepo, productRepo, userRepo, paymentService, notifier,
	)
	accountService := service.NewAccountService(accountRepo, orderRepo, paymentRepo, customerRepo)
	sessionService := service.NewCashSessionService(sessionRepo, userRepo, analyticsRepo)
	chargeService := service.NewChargeService(chargeRepo, paymentRepo, storeRepo, pixClient, notifier)
	reportService := service.NewReportService(analyticsRepo, accountService, tillPrinter)
	storeService := service.NewStoreService(storeRepo, methodRepo, productRepo, customerRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Order:   handler.NewOrderHandler(orderService),
		Account: handler.NewAccountHandler(accountService, reportService),
		Payment: handler.NewPaymentHandler(paymentService),
		Session: handler.NewSessionHandler(sessionService),
		Charge:  handler.NewChargeHandler(chargeService),
		Report:  handler.NewReportHandler(reportService),
		Store:   handler.NewStoreHandler(storeService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
