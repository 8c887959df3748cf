// Package routes defines HTTP routes for the auction service.
package routes

import (
	"github.com/bidmarket/auction-service/internal/config"
	"github.com/bidmarket/auction-service/internal/handlers"
	"github.com/bidmarket/auction-service/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all HTTP routes for the application.
func Setup(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	auctionHandler *handlers.AuctionHandler,
	healthHandler *handlers.HealthHandler,
	authenticator middleware.Authenticator,
) {
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
	}))

	// Health check
	router.GET("/health", healthHandler.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded images
	router.Static("/uploads", cfg.UploadDir)

	requireAuth := middleware.RequireAuth(authenticator)

	api := router.Group("/api")
	{
		api.POST("/signup", authHandler.Signup)
		api.POST("/signin", authHandler.Signin)
		api.POST("/signout", requireAuth, authHandler.Signout)

		api.GET("/auctions", auctionHandler.List)
		api.POST("/auctions", requireAuth, auctionHandler.Create)
		api.POST("/auctions/:id/bid", requireAuth, auctionHandler.Bid)
		api.PUT("/auctions/:id", requireAuth, auctionHandler.Update)
		api.DELETE("/auctions/:id", requireAuth, auctionHandler.Delete)
	}
}
