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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/stwalsh4118/suburbscope/internal/config"
	"github.com/stwalsh4118/suburbscope/internal/handlers"
	"github.com/stwalsh4118/suburbscope/internal/listings"
	"github.com/stwalsh4118/suburbscope/internal/logger"
	"github.com/stwalsh4118/suburbscope/internal/middleware"
	"github.com/stwalsh4118/suburbscope/internal/repository"
	"github.com/stwalsh4118/suburbscope/internal/router"
	"github.com/stwalsh4118/suburbscope/internal/services"
)

const (
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
	limiterPruneEvery = 10 * time.Minute
)

func main() {
	// A missing .env is normal outside local development
	envFileErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting suburbscope", map[string]interface{}{
		"version":      handlers.APIVersion,
		"environment":  cfg.Server.Env,
		"port":         cfg.Server.Port,
		"listings_api": cfg.ListingsAPI.URL,
		"timeout":      cfg.ListingsAPI.Timeout.String(),
		"dotenv":       envFileErr == nil,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Background work stops when the process is signalled
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	go limiter.Cleanup(ctx, limiterPruneEvery)

	// Initialize repository and service layers
	listingRepo := repository.NewListingRepository(cfg.ListingsAPI, log)
	propertyService := services.NewPropertyService(
		listingRepo,
		listings.FallbackListings,
		listings.Summarizer{ZeroAsMissing: cfg.Summary.ZeroAsMissing},
		log.WithComponent("property_service"),
	)

	engine := router.New(cfg, log, router.Dependencies{
		Property: handlers.NewPropertyHandler(propertyService),
		Health:   handlers.NewHealthHandler(cfg.ListingsAPI.URL, listings.FallbackListings, cfg.Server.Env),
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	<-ctx.Done()
	stop()

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
