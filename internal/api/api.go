package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/matboka/matboka-backend/internal/database"
	"github.com/matboka/matboka-backend/internal/middleware"
	"github.com/matboka/matboka-backend/internal/service"
)

// SetupAPI wires services and handlers onto the router. cache may be
// nil (no read caching, no login rate limiting); blobs is injected so
// tests can substitute a double.
func SetupAPI(router *gin.Engine, db *gorm.DB, cache *redis.Client, blobs service.BlobStore, jwtSecret string) {
	v1 := router.Group("/api/v1")
	{
		// Initialize services
		authService := service.NewAuthService(db, jwtSecret)
		recipeService := service.NewRecipeService(database.NewGormStore(db), blobs, cache)
		pipeline := service.NewImagePipeline()

		// Initialize handlers
		authHandler := NewAuthHandler(authService)
		recipeHandler := NewRecipeHandler(recipeService, pipeline, authService)
		tagHandler := NewTagHandler(recipeService, authService)

		// Register routes
		loginLimit := middleware.RateLimit(cache, 10, time.Minute)
		authHandler.RegisterRoutes(v1, loginLimit)
		recipeHandler.RegisterRoutes(v1)
		tagHandler.RegisterRoutes(v1)
	}
}
