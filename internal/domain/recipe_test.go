package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecipeDocument_HasNutrition(t *testing.T) {
	tests := []struct {
		name     string
		doc      RecipeDocument
		expected bool
	}{
		{"missing key", RecipeDocument{"title": "Pasta"}, false},
		{"nil value", RecipeDocument{"nutrition": nil}, false},
		{"empty object", RecipeDocument{"nutrition": map[string]interface{}{}}, false},
		{"empty list", RecipeDocument{"nutrition": []interface{}{}}, false},
		{"empty string", RecipeDocument{"nutrition": ""}, false},
		{"populated object", RecipeDocument{"nutrition": map[string]interface{}{"nutrients": []interface{}{"calories"}}}, true},
		{"populated list", RecipeDocument{"nutrition": []interface{}{"calories"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.doc.HasNutrition())
		})
	}
}

func TestRecipeDocument_Accessors(t *testing.T) {
	doc := RecipeDocument{
		"title":          "Pad Thai",
		"readyInMinutes": float64(30),
		"servings":       2,
		"dishTypes":      []interface{}{"lunch", "dinner", 42},
	}

	assert.Equal(t, "Pad Thai", doc.Str("title"))
	assert.Equal(t, "", doc.Str("missing"))
	assert.Equal(t, 30, doc.Int("readyInMinutes"))
	assert.Equal(t, 2, doc.Int("servings"))
	assert.Equal(t, 0, doc.Int("missing"))
	assert.Equal(t, []string{"lunch", "dinner"}, doc.StrSlice("dishTypes"))
	assert.Nil(t, doc.StrSlice("missing"))
}

func TestCachedSearchQuery_Fresh(t *testing.T) {
	expires := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	entry := &CachedSearchQuery{ExpiresAt: expires}

	assert.True(t, entry.Fresh(expires.Add(-time.Minute)))
	assert.False(t, entry.Fresh(expires), "usable only while now is strictly before expires_at")
	assert.False(t, entry.Fresh(expires.Add(time.Second)))
}

func TestCachedRecipe_Summary(t *testing.T) {
	recipe := &CachedRecipe{
		ExternalID: 101,
		Title:      "Column Title",
		ImageURL:   "column.jpg",
		Data: RecipeDocument{
			"title":          "Document Title",
			"image":          "document.jpg",
			"readyInMinutes": float64(25),
			"servings":       float64(4),
			"dishTypes":      []interface{}{"dinner"},
		},
	}

	summary := recipe.Summary()
	assert.Equal(t, 101, summary.ID)
	assert.Equal(t, "Document Title", summary.Title, "document fields take precedence")
	assert.Equal(t, "document.jpg", summary.ImageURL)
	assert.Equal(t, 25, summary.ReadyInMinutes)
	assert.Equal(t, 4, summary.Servings)
	assert.Equal(t, []string{"dinner"}, summary.DishTypes)

	// Denormalized columns back fill when the document omits the fields.
	bare := &CachedRecipe{ExternalID: 5, Title: "Fallback", ImageURL: "fallback.jpg", Data: RecipeDocument{}}
	summary = bare.Summary()
	assert.Equal(t, "Fallback", summary.Title)
	assert.Equal(t, "fallback.jpg", summary.ImageURL)
}
