package recipe

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mealforge/recipedb/internal/domain"
)

// DetailCache answers whether the complete record for a recipe is already
// stored. Rows never expire by time; only a missing nutrition block makes
// a physically present row count as a miss.
type DetailCache struct {
	log  zerolog.Logger
	repo domain.RecipeCacheRepo
}

func NewDetailCache(log zerolog.Logger, repo domain.RecipeCacheRepo) *DetailCache {
	return &DetailCache{
		log:  log.With().Str("module", "detail_cache").Logger(),
		repo: repo,
	}
}

// Lookup returns the cached recipe only when the row passes the
// completeness check. Incomplete rows and persistence failures both
// surface as misses so the caller drives a refresh.
func (c *DetailCache) Lookup(ctx context.Context, externalID int) (*domain.CachedRecipe, bool) {
	recipe, err := c.repo.Get(ctx, externalID)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.log.Warn().Err(err).Int("external_id", externalID).Msg("detail cache read failed, treating as miss")
		}
		return nil, false
	}

	if !recipe.Complete() {
		c.log.Debug().Int("external_id", externalID).Msg("cached recipe lacks nutrition, treating as miss")
		return nil, false
	}

	return recipe, true
}

// Resolve returns whatever rows exist for the given ids, complete or not.
// Search hits are served from display fields only, so the completeness
// gate does not apply here.
func (c *DetailCache) Resolve(ctx context.Context, externalIDs []int) map[int]*domain.CachedRecipe {
	rows, err := c.repo.GetByExternalIDs(ctx, externalIDs)
	if err != nil {
		c.log.Warn().Err(err).Msg("detail cache bulk read failed")
		return map[int]*domain.CachedRecipe{}
	}
	return rows
}

// Upsert writes the payload for externalID, inserting or overwriting in
// place. Concurrent writers for the same id are fine; last writer wins.
func (c *DetailCache) Upsert(ctx context.Context, externalID int, title, imageURL string, data domain.RecipeDocument) error {
	if err := c.repo.Upsert(ctx, externalID, title, imageURL, data); err != nil {
		return errors.Wrapf(err, "failed to upsert recipe %d", externalID)
	}
	return nil
}
