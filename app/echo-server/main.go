package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"shopSense/app/echo-server/router"
	"shopSense/business/behavior"
	"shopSense/business/cart"
	"shopSense/business/preference"
	"shopSense/business/pricing"
	"shopSense/business/product"
	"shopSense/business/recommendation"
	userService "shopSense/business/user"
	"shopSense/internal/middleware"
	"shopSense/internal/repository/azureopenai"
	psqlRepo "shopSense/internal/repository/postgres"
	redisRepo "shopSense/internal/repository/redis"
	"shopSense/internal/rest"
	"shopSense/pkg/config"
	"shopSense/pkg/database"
	redisConn "shopSense/pkg/database/redis"
	"shopSense/pkg/logger"
	"shopSense/pkg/metrics"
	"shopSense/pkg/utils"
	"syscall"
	"time"

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
	logger.Info("Starting ShopSense", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is optional. Without it the preference extractor just skips
	// caching and hits the gateway on every request.
	var preferenceCache preference.PreferenceCache
	redisClient, err := redisConn.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, preference caching disabled", "error", err)
	} else {
		preferenceCache = redisRepo.NewPreferenceCache(redisClient)
		logger.Info("Redis connected successfully")
	}

	openaiRepo := azureopenai.NewOpenAIRepository(azureopenai.Config{
		Endpoint:       cfg.AzureOpenAI.Endpoint,
		APIKey:         cfg.AzureOpenAI.APIKey,
		APIVersion:     cfg.AzureOpenAI.APIVersion,
		ChatDeployment: cfg.AzureOpenAI.ChatDeployment,
	})

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	productsRepo := psqlRepo.NewProductRepository(db)
	eventsRepo := psqlRepo.NewUserEventRepository(db)

	// Init service
	userSvc := userService.NewUserService(userRepo, validate)
	productSvc := product.NewProductService(productsRepo)
	behaviorSvc := behavior.NewService(eventsRepo)
	preferenceSvc := preference.NewService(eventsRepo, openaiRepo, preferenceCache)
	recommendationSvc := recommendation.NewService(productsRepo, behaviorSvc, preferenceSvc, openaiRepo)
	cartSvc := cart.NewService(productsRepo, preferenceSvc, openaiRepo)
	pricingSvc := pricing.NewService(productsRepo, openaiRepo)

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	productHandler := rest.NewProductHandler(productSvc)
	recommendationHandler := rest.NewRecommendationHandler(recommendationSvc, cartSvc, behaviorSvc)
	pricingHandler := rest.NewPricingHandler(pricingSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetRecommendationRoutes(api, recommendationHandler)
	router.SetPricingAdminRoutes(api, pricingHandler, authRequired, adminOnly)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

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

	if redisClient != nil {
		if err := redisConn.CloseRedisClient(redisClient); err != nil {
			logger.Error("Redis shutdown error", "error", err)
		}
	}

	logger.Info("Server stopped")
}
