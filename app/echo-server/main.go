package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gachaVault/app/echo-server/router"
	"gachaVault/business/gacha"
	userService "gachaVault/business/user"
	"gachaVault/internal/middleware"
	psqlRepo "gachaVault/internal/repository/postgres"
	redisRepo "gachaVault/internal/repository/redis"
	"gachaVault/internal/rest"
	"gachaVault/pkg/config"
	"gachaVault/pkg/database"
	redisdb "gachaVault/pkg/database/redis"
	"gachaVault/pkg/logger"
	"gachaVault/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting GachaVault", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is an optional cache; the service degrades to replay-per-query
	// without it.
	var stateCache gacha.StateCache
	if cfg.Redis.Host != "" {
		redisClient, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, state cache disabled", err)
		} else {
			defer redisdb.CloseRedisClient(redisClient)
			stateCache = redisRepo.NewStateCache(redisClient)
			logger.Info("Redis connected successfully")
		}
	}

	metrics.Init()

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	pullRepo := psqlRepo.NewPullEventRepository(db)

	// Init service
	userSvc := userService.NewUserService(userRepo, validate)
	gachaSvc := gacha.NewGachaService(pullRepo, stateCache, gacha.Config{
		EscalationThreshold: cfg.Gacha.EscalationThreshold,
		BonusPointsCap:      cfg.Gacha.BonusPointsCap,
	})

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	pullHandler := rest.NewPullHandler(gachaSvc)
	gachaHandler := rest.NewGachaHandler(gachaSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()

	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetPullRoutes(api, pullHandler)
	router.SetGachaRoutes(api, gachaHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
