package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/verksted-as/workshop-api/docs"
	"github.com/verksted-as/workshop-api/internal/auth"
	"github.com/verksted-as/workshop-api/internal/config"
	"github.com/verksted-as/workshop-api/internal/database"
	"github.com/verksted-as/workshop-api/internal/datawarehouse"
	"github.com/verksted-as/workshop-api/internal/http/handler"
	"github.com/verksted-as/workshop-api/internal/http/middleware"
	"github.com/verksted-as/workshop-api/internal/http/router"
	"github.com/verksted-as/workshop-api/internal/jobs"
	"github.com/verksted-as/workshop-api/internal/logger"
	"github.com/verksted-as/workshop-api/internal/repository"
	"github.com/verksted-as/workshop-api/internal/service"
	"github.com/verksted-as/workshop-api/internal/storage"
	"go.uber.org/zap"
)

// jobTimeout bounds a single background job run.
const jobTimeout = 5 * time.Minute

// @title Verksted Workshop API
// @version 1.0
// @description Workshop management API for quotes, service orders and parts inventory
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@verksted.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "workshop-api-staging.verksted.io"
	case "production":
		docs.SwaggerInfo.Host = "api.verksted.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage for signature files
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize accounting warehouse connection (optional, read-only)
	// The app continues without it if not configured or unreachable
	var dwClient *datawarehouse.Client
	if cfg.DataWarehouse.Enabled {
		dwClient, err = datawarehouse.NewClient(&cfg.DataWarehouse, log)
		if err != nil {
			log.Warn("Data warehouse connection failed, continuing without it",
				zap.Error(err),
			)
		} else if dwClient != nil {
			log.Info("Data warehouse connected successfully",
				zap.Int("max_open_conns", cfg.DataWarehouse.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.DataWarehouse.QueryTimeout),
			)
		}
	} else {
		log.Info("Data warehouse not configured, skipping",
			zap.Bool("enabled", cfg.DataWarehouse.Enabled),
		)
	}

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)
	laborTypeRepo := repository.NewLaborTypeRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	quoteItemRepo := repository.NewQuoteItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	movementRepo := repository.NewInventoryMovementRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	txManager := repository.NewTransactionManager(db)

	// Initialize services
	numberService := service.NewNumberService(quoteRepo, orderRepo, log)
	inventoryService := service.NewInventoryService(movementRepo, productRepo, txManager, log)
	clientService := service.NewClientService(clientRepo, log)
	vehicleService := service.NewVehicleService(vehicleRepo, clientRepo, log)
	supplierService := service.NewSupplierService(supplierRepo, log)
	productService := service.NewProductService(productRepo, supplierRepo, inventoryService, txManager, log)
	laborTypeService := service.NewLaborTypeService(laborTypeRepo, log)
	quoteService := service.NewQuoteService(quoteRepo, quoteItemRepo, clientRepo, vehicleRepo, productRepo, laborTypeRepo, numberService, txManager, log)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, clientRepo, vehicleRepo, productRepo, laborTypeRepo, numberService, inventoryService, txManager, fileStorage, log)
	lifecycleService := service.NewQuoteLifecycleService(quoteRepo, quoteItemRepo, orderRepo, orderService, numberService, txManager, log)
	notificationService := service.NewNotificationService(notificationRepo, log)
	dashboardService := service.NewDashboardService(quoteRepo, orderRepo, productRepo, dwClient, log)

	// Initialize middleware
	tokenService := auth.NewTokenService(&cfg.Auth)
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo, tokenService, log)
	clientHandler := handler.NewClientHandler(clientService, log)
	vehicleHandler := handler.NewVehicleHandler(vehicleService, log)
	supplierHandler := handler.NewSupplierHandler(supplierService, log)
	productHandler := handler.NewProductHandler(productService, log)
	laborTypeHandler := handler.NewLaborTypeHandler(laborTypeService, log)
	quoteHandler := handler.NewQuoteHandler(quoteService, lifecycleService, log)
	orderHandler := handler.NewOrderHandler(orderService, cfg.Storage.MaxUploadSizeMB, log)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		dwClient,
		authMiddleware,
		rateLimiter,
		authHandler,
		clientHandler,
		vehicleHandler,
		supplierHandler,
		productHandler,
		laborTypeHandler,
		quoteHandler,
		orderHandler,
		inventoryHandler,
		notificationHandler,
		dashboardHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.LowStockEnabled || cfg.Jobs.QuoteExpiryEnabled {
		scheduler = jobs.NewScheduler(log)

		if cfg.Jobs.LowStockEnabled {
			if err := jobs.RegisterLowStockJob(
				scheduler,
				productService,
				userRepo,
				notificationService,
				notificationRepo,
				log,
				cfg.Jobs.LowStockSchedule,
				jobTimeout,
			); err != nil {
				log.Error("Failed to register low stock job", zap.Error(err))
			}
		}

		if cfg.Jobs.QuoteExpiryEnabled {
			if err := jobs.RegisterQuoteExpiryJob(
				scheduler,
				quoteRepo,
				notificationService,
				notificationRepo,
				log,
				cfg.Jobs.QuoteExpirySchedule,
				jobTimeout,
			); err != nil {
				log.Error("Failed to register quote expiry job", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.GetJobNames()))
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close data warehouse connection if initialized
		if dwClient != nil {
			if err := dwClient.Close(); err != nil {
				log.Warn("Error closing data warehouse connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
