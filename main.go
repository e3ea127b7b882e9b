package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-pos/config"
	"restaurant-pos/events"
	"restaurant-pos/handlers"
	"restaurant-pos/logger"
	"restaurant-pos/middleware"
	"restaurant-pos/routes"
	"restaurant-pos/services"
	"restaurant-pos/store"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	switch {
	case cfg.GinMode != "":
		gin.SetMode(cfg.GinMode)
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database
	db, err := config.OpenDB(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := store.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	repo := store.New(db)

	ctx := context.Background()
	if cfg.SeedData {
		if err := repo.Seed(ctx); err != nil {
			log.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	hub := events.NewHub(32)
	orders := services.NewOrderService(repo, hub, log)
	auth := services.NewAuthService(repo, cfg.JWTSecret, log)
	if err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("Failed to create POS admin account", zap.Error(err))
	}

	h := handlers.New(handlers.Services{
		Menu:      services.NewMenuService(repo, log),
		Tables:    services.NewTableService(repo, hub, log),
		Orders:    orders,
		Settings:  services.NewSettingsService(repo, cfg.GeofenceRadiusMeters, log),
		Analytics: services.NewAnalyticsService(repo),
		Print:     services.NewPrintService(repo, orders),
		Auth:      auth,
		Hub:       hub,
	}, log)

	r, err := routes.NewRouter(cfg.TrustedProxies)
	if err != nil {
		log.Fatal("Invalid TRUSTED_PROXIES", zap.Error(err))
	}
	r.Use(logger.RequestLogger(log), logger.Recovery(log), middleware.CORS(cfg.CORSAllowedOrigins))

	// Register all routes
	routes.SetupRoutes(r, h, routes.Options{
		Tokens:           auth,
		EnforceStaffAuth: cfg.StaffAuthRequired,
		GuestLimit:       middleware.GuestRateLimit(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
	})

	log.Info("Server running",
		zap.String("addr", "http://localhost:"+cfg.Port),
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("staff_auth_required", cfg.StaffAuthRequired),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
