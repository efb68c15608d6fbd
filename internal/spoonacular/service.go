package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mealforge/recipedb/internal/domain"
)

// maxSearchPage caps how many results one upstream search call fetches,
// regardless of the requested page size.
const maxSearchPage = 50

// Service is the only component allowed to talk to the recipe provider.
// Retries, backoff and rate limiting live here; callers treat any failure
// as "could not refresh".
type Service interface {
	Search(ctx context.Context, query string, limit int) (*domain.SearchResult, error)
	FetchDetails(ctx context.Context, externalID int) (domain.RecipeDocument, error)
}

type service struct {
	log        zerolog.Logger
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

type searchResponse struct {
	Results      []domain.RecipeDocument `json:"results"`
	TotalResults int                     `json:"totalResults"`
}

func NewService(log zerolog.Logger, config *domain.Config) Service {
	// The free provider tier allows short bursts but sustained traffic is
	// throttled, so keep a modest limiter in front of every call.
	return &service{
		log: log.With().Str("module", "spoonacular").Logger(),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		apiKey:  config.ProviderAPIKey,
		baseURL: config.ProviderBaseURL,
	}
}

// Search runs a complex search for the query and returns the ordered hits
// plus the total count reported by the provider. Hits carry recipe
// information but no nutrition block.
func (s *service) Search(ctx context.Context, query string, limit int) (*domain.SearchResult, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxSearchPage {
		limit = maxSearchPage
	}

	params := url.Values{}
	params.Set("apiKey", s.apiKey)
	params.Set("query", query)
	params.Set("number", strconv.Itoa(limit))
	params.Set("addRecipeInformation", "true")
	params.Set("fillIngredients", "true")

	body, err := s.get(ctx, fmt.Sprintf("%s/recipes/complexSearch?%s", s.baseURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	resp := &searchResponse{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, errors.Wrap(domain.ErrUpstream, "malformed search response")
	}

	result := &domain.SearchResult{
		TotalResults: resp.TotalResults,
		Hits:         make([]domain.SearchHit, 0, len(resp.Results)),
	}

	for _, doc := range resp.Results {
		id := doc.Int("id")
		if id == 0 {
			continue
		}
		result.Hits = append(result.Hits, domain.SearchHit{
			ExternalID: id,
			Title:      doc.Str("title"),
			ImageURL:   doc.Str("image"),
			Data:       doc,
		})
	}

	s.log.Debug().Str("query", query).Int("hits", len(result.Hits)).Int("total", resp.TotalResults).Msg("search complete")
	return result, nil
}

// FetchDetails retrieves the full recipe document, nutrition included.
func (s *service) FetchDetails(ctx context.Context, externalID int) (domain.RecipeDocument, error) {
	params := url.Values{}
	params.Set("apiKey", s.apiKey)
	params.Set("includeNutrition", "true")

	body, err := s.get(ctx, fmt.Sprintf("%s/recipes/%d/information?%s", s.baseURL, externalID, params.Encode()))
	if err != nil {
		return nil, err
	}

	doc := domain.RecipeDocument{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(domain.ErrUpstream, "malformed detail response")
	}

	return doc, nil
}

// get executes one rate-limited GET and maps HTTP failures onto the
// upstream error taxonomy.
func (s *service) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", "recipedb/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrUpstreamUnavailable, "request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(domain.ErrUpstreamUnavailable, "failed to read response body")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrRecipeNotFound
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusPaymentRequired, // daily quota exhausted
		resp.StatusCode >= 500:
		s.log.Warn().Int("status", resp.StatusCode).Str("url", req.URL.Path).Msg("provider unavailable")
		return nil, errors.Wrapf(domain.ErrUpstreamUnavailable, "status %d", resp.StatusCode)
	default:
		s.log.Warn().Int("status", resp.StatusCode).Str("url", req.URL.Path).Msg("provider rejected request")
		return nil, errors.Wrapf(domain.ErrUpstream, "status %d", resp.StatusCode)
	}
}
