// Package main is the entry point for the auth service.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/louals/production-api/internal/config"
	"github.com/louals/production-api/internal/database"
	"github.com/louals/production-api/internal/guard"
	"github.com/louals/production-api/internal/handlers"
	"github.com/louals/production-api/internal/logging"
	"github.com/louals/production-api/internal/repository"
	"github.com/louals/production-api/internal/routes"
	"github.com/louals/production-api/internal/service"
	"github.com/louals/production-api/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger := logging.New(cfg.Environment)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	redisClient, err := redis.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, hasher, logger)
	protector := guard.NewRedisProtector(redisClient)

	authHandler := handlers.NewAuthHandler(authService, logger)
	healthHandler := handlers.NewHealthHandler()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	routes.Setup(router, authHandler, healthHandler, protector, cfg, logger)

	logger.Info(context.Background(), "starting auth service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
