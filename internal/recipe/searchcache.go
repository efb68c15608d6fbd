package recipe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mealforge/recipedb/internal/domain"
)

// SearchCache answers whether a normalized form of a query has been
// searched recently. Entries expire on a fixed TTL, enforced at read time;
// removal of expired rows is left to PurgeExpired.
type SearchCache struct {
	log  zerolog.Logger
	repo domain.SearchCacheRepo
	ttl  time.Duration
	now  func() time.Time
}

func NewSearchCache(log zerolog.Logger, repo domain.SearchCacheRepo, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = domain.DefaultSearchCacheTTL
	}

	return &SearchCache{
		log:  log.With().Str("module", "search_cache").Logger(),
		repo: repo,
		ttl:  ttl,
		now:  time.Now,
	}
}

// NormalizeQuery case-folds the query and collapses internal whitespace so
// cosmetic variations of the same search text share one cache key.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// QueryHash derives the cache key: a hex SHA-256 digest of the normalized
// query. Deterministic across process restarts so hits survive redeploys.
func QueryHash(query string) string {
	sum := sha256.Sum256([]byte(NormalizeQuery(query)))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached entry for the query if one exists and is still
// fresh. A persistence failure degrades to a miss so the caller falls back
// to the provider.
func (c *SearchCache) Lookup(ctx context.Context, query string) (*domain.CachedSearchQuery, bool) {
	hash := QueryHash(query)

	entry, err := c.repo.Get(ctx, hash)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			c.log.Warn().Err(err).Str("query_hash", hash).Msg("search cache read failed, treating as miss")
		}
		return nil, false
	}

	if !entry.Fresh(c.now()) {
		c.log.Debug().Str("query_hash", hash).Time("expired_at", entry.ExpiresAt).Msg("search cache entry expired")
		return nil, false
	}

	return entry, true
}

// Store replaces the cached entry for the query with the given result ids
// and total count, stamped with a fresh TTL window.
func (c *SearchCache) Store(ctx context.Context, query string, resultIDs []int, totalResults int) error {
	now := c.now()

	entry := &domain.CachedSearchQuery{
		Query:        query,
		QueryHash:    QueryHash(query),
		ResultIDs:    resultIDs,
		TotalResults: totalResults,
		CreatedAt:    now,
		ExpiresAt:    now.Add(c.ttl),
	}

	if err := c.repo.Replace(ctx, entry); err != nil {
		return errors.Wrap(err, "failed to store search cache entry")
	}

	return nil
}

// PurgeExpired deletes every entry whose TTL has elapsed and returns the
// count. Safe to run concurrently with lookups; a racing lookup just sees
// a miss.
func (c *SearchCache) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := c.repo.DeleteExpired(ctx, c.now())
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge expired search cache")
	}

	c.log.Info().Int64("purged", purged).Msg("purged expired search cache entries")
	return purged, nil
}
