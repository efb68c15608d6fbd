package recipe

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mealforge/recipedb/internal/domain"
	"github.com/mealforge/recipedb/internal/spoonacular"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// Service orchestrates the two caches in front of the upstream provider.
// Concurrent requests for the same query or recipe may each call upstream
// independently; writes are replace-or-upsert so the last one lands.
type Service interface {
	// SearchRecipes serves a search from cache when fresh, otherwise from
	// the provider, caching the outcome.
	SearchRecipes(ctx context.Context, query string, limit int) (*domain.SearchResponse, error)

	// GetRecipeDetails serves the full recipe document. The bool reports
	// whether it came from cache.
	GetRecipeDetails(ctx context.Context, externalID int) (domain.RecipeDocument, bool, error)

	// PurgeExpiredSearches runs the maintenance sweep over the search
	// cache and returns how many rows were removed.
	PurgeExpiredSearches(ctx context.Context) (int64, error)
}

type service struct {
	log      zerolog.Logger
	search   *SearchCache
	details  *DetailCache
	upstream spoonacular.Service
}

func NewService(log zerolog.Logger, search *SearchCache, details *DetailCache, upstream spoonacular.Service) Service {
	return &service{
		log:      log.With().Str("module", "recipe").Logger(),
		search:   search,
		details:  details,
		upstream: upstream,
	}
}

func (s *service) SearchRecipes(ctx context.Context, query string, limit int) (*domain.SearchResponse, error) {
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	if entry, ok := s.search.Lookup(ctx, query); ok {
		return s.serveFromCache(ctx, entry, limit), nil
	}

	result, err := s.upstream.Search(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "search %q failed", query)
	}

	resultIDs := make([]int, 0, len(result.Hits))
	summaries := make([]domain.RecipeSummary, 0, len(result.Hits))
	for _, hit := range result.Hits {
		resultIDs = append(resultIDs, hit.ExternalID)
		if len(summaries) < limit {
			summaries = append(summaries, hit.Summary())
		}

		// Opportunistic caching: the payload has no nutrition yet, so the
		// row stays incomplete until the first detail request hydrates it.
		if err := s.details.Upsert(ctx, hit.ExternalID, hit.Title, hit.ImageURL, hit.Data); err != nil {
			s.log.Warn().Err(err).Int("external_id", hit.ExternalID).Msg("failed to cache search hit")
		}
	}

	// Caching is best-effort: the freshly fetched results are served even
	// when the store fails.
	if err := s.search.Store(ctx, query, resultIDs, result.TotalResults); err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("failed to cache search results")
	}

	return &domain.SearchResponse{
		Results: summaries,
		Total:   result.TotalResults,
		Cached:  false,
	}, nil
}

// serveFromCache resolves the stored result ids against the detail cache,
// preserving the stored order. Ids whose recipe row has not been hydrated
// yet are skipped.
func (s *service) serveFromCache(ctx context.Context, entry *domain.CachedSearchQuery, limit int) *domain.SearchResponse {
	ids := entry.ResultIDs
	if len(ids) > limit {
		ids = ids[:limit]
	}

	rows := s.details.Resolve(ctx, ids)

	summaries := make([]domain.RecipeSummary, 0, len(ids))
	for _, id := range ids {
		if row, ok := rows[id]; ok {
			summaries = append(summaries, row.Summary())
		}
	}

	s.log.Debug().Str("query_hash", entry.QueryHash).Int("results", len(summaries)).Msg("search served from cache")

	return &domain.SearchResponse{
		Results: summaries,
		Total:   entry.TotalResults,
		Cached:  true,
	}
}

func (s *service) GetRecipeDetails(ctx context.Context, externalID int) (domain.RecipeDocument, bool, error) {
	if cached, ok := s.details.Lookup(ctx, externalID); ok {
		return cached.Data, true, nil
	}

	data, err := s.upstream.FetchDetails(ctx, externalID)
	if err != nil {
		return nil, false, errors.Wrapf(err, "detail fetch for recipe %d failed", externalID)
	}

	if err := s.details.Upsert(ctx, externalID, data.Str("title"), data.Str("image"), data); err != nil {
		s.log.Warn().Err(err).Int("external_id", externalID).Msg("failed to cache recipe details")
	}

	return data, false, nil
}

func (s *service) PurgeExpiredSearches(ctx context.Context) (int64, error) {
	return s.search.PurgeExpired(ctx)
}
