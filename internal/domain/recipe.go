package domain

import (
	"time"
)

// RecipeDocument is the full upstream recipe payload kept as a
// schema-agnostic JSON document. The upstream schema is much broader than
// what the cache layer needs, so only the fields it inspects get typed
// accessors; everything else passes through untouched.
type RecipeDocument map[string]interface{}

// HasNutrition reports whether the document carries a non-empty nutrition
// block. This is the completeness invariant for cached recipes: a row
// without nutrition is refreshed on the next detail request.
func (d RecipeDocument) HasNutrition() bool {
	v, ok := d["nutrition"]
	if !ok || v == nil {
		return false
	}

	switch n := v.(type) {
	case map[string]interface{}:
		return len(n) > 0
	case []interface{}:
		return len(n) > 0
	case string:
		return n != ""
	default:
		return true
	}
}

// Str returns the string value under key, or empty when absent or not a
// string.
func (d RecipeDocument) Str(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the numeric value under key as an int. JSON numbers decode
// as float64, so both representations are accepted.
func (d RecipeDocument) Int(key string) int {
	switch v := d[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// StrSlice returns the string list under key, dropping non-string elements.
func (d RecipeDocument) StrSlice(key string) []string {
	raw, ok := d[key].([]interface{})
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// CachedRecipe stores the full recipe payload from the upstream provider.
// Rows are created on first fetch and refreshed in place; they are never
// expired by time, only by the completeness check.
type CachedRecipe struct {
	ID         int64
	ExternalID int
	Title      string
	ImageURL   string
	Data       RecipeDocument
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Complete reports whether the row can be served as a detail hit.
func (r *CachedRecipe) Complete() bool {
	return r.Data.HasNutrition()
}

// CachedSearchQuery stores the ordered result ids and total count of one
// upstream search, keyed by the hash of the normalized query text.
type CachedSearchQuery struct {
	ID           int64
	Query        string
	QueryHash    string
	ResultIDs    []int
	TotalResults int
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Fresh reports whether the row is still usable at the given instant.
// Expired rows are treated as misses at read time; deletion is deferred to
// the purge sweep.
func (q *CachedSearchQuery) Fresh(now time.Time) bool {
	return now.Before(q.ExpiresAt)
}

// RecipeSummary is the minimal shape returned for each search result.
type RecipeSummary struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	ImageURL       string   `json:"image,omitempty"`
	ReadyInMinutes int      `json:"readyInMinutes,omitempty"`
	Servings       int      `json:"servings,omitempty"`
	DishTypes      []string `json:"dishTypes,omitempty"`
}

// Summary builds the search-result shape from a cached row, preferring the
// document fields and falling back to the denormalized columns.
func (r *CachedRecipe) Summary() RecipeSummary {
	title := r.Data.Str("title")
	if title == "" {
		title = r.Title
	}
	image := r.Data.Str("image")
	if image == "" {
		image = r.ImageURL
	}

	return RecipeSummary{
		ID:             r.ExternalID,
		Title:          title,
		ImageURL:       image,
		ReadyInMinutes: r.Data.Int("readyInMinutes"),
		Servings:       r.Data.Int("servings"),
		DishTypes:      r.Data.StrSlice("dishTypes"),
	}
}

// SearchHit is one result of an upstream search call. The payload carries
// recipe information without nutrition, so hits cached opportunistically
// stay incomplete until the first detail request hydrates them.
type SearchHit struct {
	ExternalID int
	Title      string
	ImageURL   string
	Data       RecipeDocument
}

// Summary builds the search-result shape straight from an upstream hit.
func (h SearchHit) Summary() RecipeSummary {
	return RecipeSummary{
		ID:             h.ExternalID,
		Title:          h.Title,
		ImageURL:       h.ImageURL,
		ReadyInMinutes: h.Data.Int("readyInMinutes"),
		Servings:       h.Data.Int("servings"),
		DishTypes:      h.Data.StrSlice("dishTypes"),
	}
}

// SearchResult is the outcome of one upstream search call: the ordered
// hits for the requested page and the total count reported by the
// provider, which may exceed the page.
type SearchResult struct {
	Hits         []SearchHit
	TotalResults int
}

// SearchResponse is what the route layer receives from a search request.
type SearchResponse struct {
	Results []RecipeSummary `json:"results"`
	Total   int             `json:"total"`
	Cached  bool            `json:"cached"`
}
