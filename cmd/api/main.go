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

	"github.com/slumberhaus/storefront/internal/config"
	"github.com/slumberhaus/storefront/internal/delivery/events"
	httpDelivery "github.com/slumberhaus/storefront/internal/delivery/http"
	"github.com/slumberhaus/storefront/internal/delivery/http/handler"
	"github.com/slumberhaus/storefront/internal/pkg/cache"
	"github.com/slumberhaus/storefront/internal/pkg/database"
	"github.com/slumberhaus/storefront/internal/pkg/logger"
	cacheRepo "github.com/slumberhaus/storefront/internal/repository/cache"
	"github.com/slumberhaus/storefront/internal/repository/postgres"
	"github.com/slumberhaus/storefront/internal/usecase/cart"
	"github.com/slumberhaus/storefront/internal/usecase/catalog"
	"github.com/slumberhaus/storefront/internal/usecase/product"
	"github.com/slumberhaus/storefront/internal/usecase/review"

	_ "github.com/slumberhaus/storefront/docs"
)

// @title Slumberhaus Storefront API
// @version 1.0
// @description Mattress storefront backend with faceted catalog browsing, product management, and shopping carts.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/slumberhaus/storefront
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Catalog
// @tag.description Catalog browsing and filter endpoints

// @tag.name Products
// @tag.description Product detail and admin management endpoints

// @tag.name Reviews
// @tag.description Product review endpoints

// @tag.name Cart
// @tag.description Shopping cart endpoints

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting Storefront API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}
	appLogger.Info("Migrations applied")

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	catalogRepo := postgres.NewCatalogRepository(db)
	productRepo := postgres.NewProductRepository(db)
	variantRepo := postgres.NewVariantRepository(db)
	lookupRepo := postgres.NewLookupRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	redisCache := cacheRepo.NewRedisCache(
		redisClient,
		cfg.Cache.CatalogPageTTL,
		cfg.Cache.FilterMetaTTL,
		cfg.Cache.ReviewsListTTL,
	)

	catalogService := catalog.NewService(catalogRepo, productRepo, lookupRepo, redisCache, appLogger, cfg.Catalog.PageSize)
	productService := product.NewService(productRepo, variantRepo, publisher, appLogger)
	cartService := cart.NewService(cartRepo, variantRepo, appLogger)
	reviewService := review.NewService(reviewRepo, redisCache, appLogger)

	catalogHandler := handler.NewCatalogHandler(catalogService, appLogger, cfg.Catalog.PageSize, cfg.Catalog.FeaturedCount)
	productHandler := handler.NewProductHandler(productService, appLogger)
	cartHandler := handler.NewCartHandler(cartService, appLogger)
	reviewHandler := handler.NewReviewHandler(reviewService, appLogger)

	router := httpDelivery.NewRouter(catalogHandler, productHandler, reviewHandler, cartHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
