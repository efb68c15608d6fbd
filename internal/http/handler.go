package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mealforge/recipedb/internal/domain"
	"github.com/mealforge/recipedb/internal/recipe"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	log     zerolog.Logger
	recipes recipe.Service
}

func NewHandler(log zerolog.Logger, recipes recipe.Service) *Handler {
	return &Handler{
		log:     log.With().Str("module", "http").Logger(),
		recipes: recipes,
	}
}

// Health returns the health status of the API
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipedb",
	})
}

// SearchRecipes handles GET /api/v1/recipes/search?query=...&number=...
func (h *Handler) SearchRecipes(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	number, err := strconv.Atoi(c.DefaultQuery("number", "10"))
	if err != nil || number < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number must be a positive integer"})
		return
	}

	resp, err := h.recipes.SearchRecipes(c.Request.Context(), query, number)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRecipeDetails handles GET /api/v1/recipes/:id
func (h *Handler) GetRecipeDetails(c *gin.Context) {
	externalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe id must be numeric"})
		return
	}

	data, cached, err := h.recipes.GetRecipeDetails(c.Request.Context(), externalID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("X-Recipe-Cache", strconv.FormatBool(cached))
	c.JSON(http.StatusOK, data)
}

// PurgeExpiredCache handles DELETE /api/v1/recipes/cache/expired
func (h *Handler) PurgeExpiredCache(c *gin.Context) {
	purged, err := h.recipes.PurgeExpiredSearches(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"purged": purged})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe provider is temporarily unavailable"})
	case errors.Is(err, domain.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "recipe provider error"})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
