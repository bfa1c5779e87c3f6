// Package router assembles the gin engine: middleware order and routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stwalsh4118/suburbscope/internal/config"
	apierrors "github.com/stwalsh4118/suburbscope/internal/errors"
	"github.com/stwalsh4118/suburbscope/internal/handlers"
	"github.com/stwalsh4118/suburbscope/internal/logger"
	"github.com/stwalsh4118/suburbscope/internal/middleware"
	"github.com/stwalsh4118/suburbscope/internal/web"
)

// MsgRateLimited is returned to clients over their request budget.
const MsgRateLimited = "Too many requests, please slow down"

// Dependencies are the handlers and shared middleware state the routes use.
type Dependencies struct {
	Property *handlers.PropertyHandler
	Health   *handlers.HealthHandler
	Limiter  *middleware.RateLimiter
}

// New builds the engine with middleware applied in order:
// RequestID -> Logger -> Recovery -> Metrics -> SecureHeaders -> CORS.
// Lookup and download routes are additionally rate limited per client IP.
func New(cfg *config.Config, log *logger.Logger, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(web.MustTemplates())

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	router.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	// Operational routes
	router.GET("/health", deps.Health.Health)
	router.GET("/health/ready", deps.Health.Ready)
	router.GET("/api/v1/info", deps.Health.Info)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// UI and lookup routes
	router.GET("/", deps.Property.Index)

	limited := router.Group("/")
	limited.Use(middleware.RateLimit(deps.Limiter, func(c *gin.Context) {
		apierrors.TooManyRequests(c, MsgRateLimited)
	}))
	{
		limited.POST("/get_properties", deps.Property.GetProperties)
		limited.POST("/download_csv", deps.Property.DownloadCSV)
	}

	return router
}
