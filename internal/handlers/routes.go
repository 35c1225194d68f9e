package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"apigw-custom-response/internal/config"
	"apigw-custom-response/internal/middleware"
	"apigw-custom-response/internal/services"
)

// ServiceName and Version are reported by the health endpoint
const (
	ServiceName = "apigw-custom-response"
	Version     = "1.0.0"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Composer    services.ResponseComposer
	AuthService *middleware.AuthService
	Server      config.ServerConfig
}

// NewRouter builds a gin engine with the full middleware chain and all routes
func NewRouter(cfg *RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.ErrorTracker())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	SetupRoutes(router, cfg)
	return router
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouterConfig) {
	composeHandler := NewComposeHandler(cfg.Composer)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   ServiceName,
			"version":   Version,
			"mode":      config.GetDeploymentMode(),
			"timestamp": time.Now().UTC(),
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	if cfg.AuthService != nil {
		v1.Use(middleware.Authentication(cfg.AuthService))
	}
	v1.Use(middleware.EnhancedErrorHandler())
	v1.Use(middleware.ContentTypeValidation())
	v1.Use(middleware.RequestSizeLimit(cfg.Server.MaxRequestBytes))
	{
		v1.POST("/compose", composeHandler.Compose)
	}
}
