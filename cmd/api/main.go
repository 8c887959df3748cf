// Package main is the entry point for the auction service.
package main

import (
	"fmt"
	"log"

	"github.com/bidmarket/auction-service/internal/config"
	"github.com/bidmarket/auction-service/internal/database"
	"github.com/bidmarket/auction-service/internal/handlers"
	"github.com/bidmarket/auction-service/internal/repository"
	"github.com/bidmarket/auction-service/internal/routes"
	"github.com/bidmarket/auction-service/internal/service"
	"github.com/bidmarket/auction-service/internal/uploads"
	"github.com/bidmarket/auction-service/pkg/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[FATAL] ", err)
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("[FATAL] Failed to connect to database: ", err)
	}
	log.Print("[INFO] Database connection successful")

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatal("[FATAL] ", err)
	}

	// Initialize upload storage
	store, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatal("[FATAL] ", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	auctionRepo := repository.NewAuctionRepository(db)

	// Initialize services
	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.TokenExpiry)
	if err != nil {
		log.Fatal("[FATAL] ", err)
	}
	authService := service.NewAuthService(userRepo, jwtService, redisClient)
	auctionService := service.NewAuctionService(auctionRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	auctionHandler := handlers.NewAuctionHandler(auctionService, store)
	healthHandler := handlers.NewHealthHandler()

	// Setup router
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Setup routes
	routes.Setup(router, cfg, authHandler, auctionHandler, healthHandler, authService)

	// Start server
	log.Printf("[INFO] Starting auction service on port %s", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal("[FATAL] Failed to start server: ", err)
	}
}
