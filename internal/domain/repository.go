package domain

import (
	"context"
	"time"
)

// RecipeCacheRepo defines persistence for cached recipe details.
type RecipeCacheRepo interface {
	// Get returns the row for an upstream recipe id, or ErrCacheMiss.
	Get(ctx context.Context, externalID int) (*CachedRecipe, error)

	// GetByExternalIDs returns the existing rows for the given ids, keyed
	// by external id. Missing ids are simply absent from the map.
	GetByExternalIDs(ctx context.Context, externalIDs []int) (map[int]*CachedRecipe, error)

	// Upsert inserts a row for externalID or overwrites its title, image
	// and payload, preserving the surrogate id and created_at. Safe to
	// call concurrently for the same id; last writer wins.
	Upsert(ctx context.Context, externalID int, title, imageURL string, data RecipeDocument) error
}

// SearchCacheRepo defines persistence for cached search queries.
type SearchCacheRepo interface {
	// Get returns the row for a query hash, or ErrCacheMiss. Freshness is
	// the caller's concern; expired rows are returned as stored.
	Get(ctx context.Context, queryHash string) (*CachedSearchQuery, error)

	// Replace stores the entry, fully replacing any existing row for the
	// same query hash.
	Replace(ctx context.Context, entry *CachedSearchQuery) error

	// DeleteExpired removes every row with expires_at at or before the
	// cutoff and returns how many were deleted. Idempotent.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
