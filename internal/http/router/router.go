package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/verksted-as/workshop-api/internal/auth"
	"github.com/verksted-as/workshop-api/internal/config"
	"github.com/verksted-as/workshop-api/internal/database"
	"github.com/verksted-as/workshop-api/internal/datawarehouse"
	"github.com/verksted-as/workshop-api/internal/http/handler"
	"github.com/verksted-as/workshop-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/verksted-as/workshop-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	dwClient            *datawarehouse.Client
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	authHandler         *handler.AuthHandler
	clientHandler       *handler.ClientHandler
	vehicleHandler      *handler.VehicleHandler
	supplierHandler     *handler.SupplierHandler
	productHandler      *handler.ProductHandler
	laborTypeHandler    *handler.LaborTypeHandler
	quoteHandler        *handler.QuoteHandler
	orderHandler        *handler.OrderHandler
	inventoryHandler    *handler.InventoryHandler
	notificationHandler *handler.NotificationHandler
	dashboardHandler    *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	dwClient *datawarehouse.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	clientHandler *handler.ClientHandler,
	vehicleHandler *handler.VehicleHandler,
	supplierHandler *handler.SupplierHandler,
	productHandler *handler.ProductHandler,
	laborTypeHandler *handler.LaborTypeHandler,
	quoteHandler *handler.QuoteHandler,
	orderHandler *handler.OrderHandler,
	inventoryHandler *handler.InventoryHandler,
	notificationHandler *handler.NotificationHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		dwClient:            dwClient,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		authHandler:         authHandler,
		clientHandler:       clientHandler,
		vehicleHandler:      vehicleHandler,
		supplierHandler:     supplierHandler,
		productHandler:      productHandler,
		laborTypeHandler:    laborTypeHandler,
		quoteHandler:        quoteHandler,
		orderHandler:        orderHandler,
		inventoryHandler:    inventoryHandler,
		notificationHandler: notificationHandler,
		dashboardHandler:    dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check. The accounting warehouse is reported but
	// never fails readiness; the API works without it.
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		if rt.dwClient.IsEnabled() {
			checks["datawarehouse"] = rt.dwClient.HealthCheck(r.Context())
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Token issuance: API key only, no user token required
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.authMiddleware.RequireAdmin)
			r.Post("/auth/token", rt.authHandler.IssueToken)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)
			r.Get("/users", rt.authHandler.ListUsers)

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.List)
				r.Post("/", rt.clientHandler.Create)
				r.Get("/{id}", rt.clientHandler.GetByID)
				r.Put("/{id}", rt.clientHandler.Update)
				r.Delete("/{id}", rt.clientHandler.Delete)
			})

			// Vehicles
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", rt.vehicleHandler.List)
				r.Post("/", rt.vehicleHandler.Create)
				r.Get("/{id}", rt.vehicleHandler.GetByID)
				r.Put("/{id}", rt.vehicleHandler.Update)
				r.Delete("/{id}", rt.vehicleHandler.Delete)
			})

			// Suppliers
			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", rt.supplierHandler.List)
				r.Post("/", rt.supplierHandler.Create)
				r.Get("/{id}", rt.supplierHandler.GetByID)
				r.Put("/{id}", rt.supplierHandler.Update)
				r.Delete("/{id}", rt.supplierHandler.Delete)
			})

			// Products
			r.Route("/products", func(r chi.Router) {
				r.Get("/", rt.productHandler.List)
				r.Post("/", rt.productHandler.Create)
				r.Get("/low-stock", rt.productHandler.ListLowStock)
				r.Get("/search", rt.productHandler.Search)
				r.Get("/{id}", rt.productHandler.GetByID)
				r.Put("/{id}", rt.productHandler.Update)
				r.Delete("/{id}", rt.productHandler.Delete)
			})

			// Labor types
			r.Route("/labor-types", func(r chi.Router) {
				r.Get("/", rt.laborTypeHandler.List)
				r.Post("/", rt.laborTypeHandler.Create)
				r.Get("/{id}", rt.laborTypeHandler.GetByID)
				r.Put("/{id}", rt.laborTypeHandler.Update)
				r.Delete("/{id}", rt.laborTypeHandler.Delete)
			})

			// Quotes
			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", rt.quoteHandler.List)
				r.Post("/", rt.quoteHandler.Create)
				r.Get("/{id}", rt.quoteHandler.GetByID)
				r.Put("/{id}", rt.quoteHandler.Update)
				r.Delete("/{id}", rt.quoteHandler.Delete)
				r.Patch("/{id}/status", rt.quoteHandler.UpdateStatus)
				r.Post("/{id}/items", rt.quoteHandler.AddItem)
				r.Delete("/{id}/items/{itemId}", rt.quoteHandler.RemoveItem)
				r.Post("/{id}/convert", rt.quoteHandler.Convert)
			})

			// Orders
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", rt.orderHandler.List)
				r.Post("/", rt.orderHandler.Create)
				r.Get("/{id}", rt.orderHandler.GetByID)
				r.Put("/{id}", rt.orderHandler.Update)
				r.Patch("/{id}/status", rt.orderHandler.UpdateStatus)
				r.Post("/{id}/items", rt.orderHandler.AddItem)
				r.Delete("/{id}/items/{itemId}", rt.orderHandler.RemoveItem)
				r.Post("/{id}/signature", rt.orderHandler.UploadSignature)
				r.Get("/{id}/signature", rt.orderHandler.DownloadSignature)
			})

			// Inventory
			r.Route("/inventory", func(r chi.Router) {
				r.Post("/movements", rt.inventoryHandler.RecordMovement)
				r.Get("/stock", rt.inventoryHandler.StockLevels)
				r.Get("/products/{id}/movements", rt.inventoryHandler.ListMovements)
				r.Post("/products/{id}/recalculate", rt.inventoryHandler.RecalculateStock)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/count", rt.notificationHandler.GetUnreadCount)
				r.Put("/read-all", rt.notificationHandler.MarkAllAsRead)
				r.Get("/{id}", rt.notificationHandler.GetByID)
				r.Put("/{id}/read", rt.notificationHandler.MarkAsRead)
			})

			// Dashboard
			r.Get("/dashboard/metrics", rt.dashboardHandler.GetMetrics)
		})
	})

	return r
}
