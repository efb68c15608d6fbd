package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mealforge/recipedb/internal/recipe"
)

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(log zerolog.Logger, recipes recipe.Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	handler := NewHandler(log, recipes)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1/recipes")
	{
		api.GET("/search", handler.SearchRecipes)
		api.GET("/:id", handler.GetRecipeDetails)
		api.DELETE("/cache/expired", handler.PurgeExpiredCache)
	}

	return router
}
