// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/uzagro/storefront/internal/catalog"
	"github.com/uzagro/storefront/internal/config"
	"github.com/uzagro/storefront/internal/handlers"
	"github.com/uzagro/storefront/internal/middleware"
	"github.com/uzagro/storefront/internal/session"
	"github.com/uzagro/storefront/internal/utils"
)

func Initialize(sessions *session.Manager, catalogSource catalog.Source, cfg *config.Config) *gin.Engine {
	// Initialize handlers
	cartHandler := handlers.NewCartHandler(sessions, catalogSource)
	compareHandler := handlers.NewCompareHandler(sessions, catalogSource)

	// Set session token secret
	utils.SetJWTSecret(cfg.Session.Secret)

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(rateLimiter.Middleware())
	r.Use(middleware.Session(cfg.Session))
	r.Use(middleware.RequestLogger())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Cart routes
		cart := v1.Group("/cart")
		{
			cart.GET("", cartHandler.GetCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PATCH("/items/:id", cartHandler.UpdateQuantity)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
			cart.DELETE("", cartHandler.Clear)
			cart.POST("/toggle", cartHandler.Toggle)
		}

		// Compare routes
		compare := v1.Group("/compare")
		{
			compare.GET("", compareHandler.GetCompare)
			compare.POST("/items", compareHandler.AddItem)
			compare.POST("/toggle-item", compareHandler.ToggleItem)
			compare.DELETE("/items/:id", compareHandler.RemoveItem)
			compare.DELETE("", compareHandler.Clear)
			compare.POST("/toggle", compareHandler.Toggle)
		}
	}

	return r
}
