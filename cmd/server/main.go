package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/smartmart-backend/config"
	"github.com/ikkim/smartmart-backend/internal/app/controller"
	"github.com/ikkim/smartmart-backend/internal/app/repository"
	"github.com/ikkim/smartmart-backend/internal/app/service"
	"github.com/ikkim/smartmart-backend/internal/db"
	"github.com/ikkim/smartmart-backend/internal/middleware"
	"github.com/ikkim/smartmart-backend/internal/router"
	"github.com/ikkim/smartmart-backend/pkg/logger"
	"github.com/ikkim/smartmart-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting SmartMart server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize session store
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()
	sessions := redis.NewSessionStore(redis.GetClient())

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())

	// Initialize services
	catalogService := service.NewCatalogService(productRepo)
	accountService := service.NewAccountService(
		userRepo,
		sessions,
		cfg.Session.Secret,
		cfg.Session.TTL,
	)
	cartService := service.NewCartService(cartRepo, productRepo)

	// Initialize controllers
	productController := controller.NewProductController(catalogService)
	accountController := controller.NewAccountController(accountService, cfg.Session)
	cartController := controller.NewCartController(cartService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(
		accountService,
		cfg.Session.CookieName,
		controller.PathLogin,
		controller.PathHome,
	)

	// Setup router
	r := router.NewRouter(
		productController,
		accountController,
		cartController,
		authMiddleware,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}

	logger.Info("Server stopped successfully")
}
