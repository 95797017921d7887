// Package routes defines HTTP routes for the auth service.
package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/louals/production-api/internal/config"
	"github.com/louals/production-api/internal/guard"
	"github.com/louals/production-api/internal/handlers"
	"github.com/louals/production-api/internal/logging"
	"github.com/louals/production-api/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, authHandler *handlers.AuthHandler, healthHandler *handlers.HealthHandler, protector guard.Protector, cfg *config.Config, log logging.Logger) {
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Health and metrics sit outside the guarded surface.
	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The guard middleware runs ahead of all business logic and may
	// short-circuit with 403, 429 or 500.
	api := router.Group("/api")
	api.Use(middleware.Security(protector, log))
	api.Use(middleware.CSRF(cfg.AllowedOrigins))

	auth := api.Group("/auth")
	{
		auth.POST("/sign-up", authHandler.SignUp)
		auth.POST("/sign-in", authHandler.SignIn)
		auth.POST("/sign-out", authHandler.SignOut)
	}
}
