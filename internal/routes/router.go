package routes

import (
	"context"
	"net/http"

	"logistics-auth-service/internal/config"
	"logistics-auth-service/internal/delivery/http/handler"
	"logistics-auth-service/internal/logger"
	"logistics-auth-service/internal/middleware"
	"logistics-auth-service/internal/token"
	"logistics-auth-service/internal/usecase/supplier"
	"logistics-auth-service/internal/usecase/user"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP layer needs. Health may be nil when
// the store has nothing to ping.
type Dependencies struct {
	Users     *user.Service
	Suppliers *supplier.Service
	Scheme    token.Scheme
	Health    func() error
}

// SetupRoutes builds the engine. ctx bounds the rate limiter sweepers.
func SetupRoutes(ctx context.Context, cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	generalLimiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst)
	go generalLimiter.Run(ctx)
	go authLimiter.Run(ctx)

	// Order: recovery, request ID, logging, security headers, CORS, request size limit, general rate limit
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(generalLimiter))

	router.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": "Database connection failed",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
			"scheme":  deps.Scheme.Keyword(),
		})
	})

	userHandler := handler.NewUserHandler(deps.Users)
	supplierHandler := handler.NewSupplierHandler(deps.Suppliers)

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterRoutes(v1, middleware.RateLimitMiddleware(authLimiter))
		supplierHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Scheme))
		{
			userHandler.RegisterProfileRoutes(protected)
			supplierHandler.RegisterAdminRoutes(protected)

			admin := protected.Group("")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
