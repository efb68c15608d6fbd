package spoonacular

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealforge/recipedb/internal/domain"
)

func newTestService(baseURL string) Service {
	return NewService(zerolog.Nop(), &domain.Config{
		ProviderAPIKey:  "test-api-key",
		ProviderBaseURL: baseURL,
	})
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/complexSearch", r.URL.Path)
		assert.Equal(t, "test-api-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "chicken", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("number"))
		assert.Equal(t, "true", r.URL.Query().Get("addRecipeInformation"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{"id": 101, "title": "Chicken Curry", "image": "curry.jpg", "readyInMinutes": 35, "servings": 4},
				{"id": 102, "title": "Chicken Soup", "image": "soup.jpg", "readyInMinutes": 20, "servings": 2}
			],
			"totalResults": 87
		}`))
	}))
	defer server.Close()

	result, err := newTestService(server.URL).Search(context.Background(), "chicken", 2)

	require.NoError(t, err)
	assert.Equal(t, 87, result.TotalResults)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, 101, result.Hits[0].ExternalID)
	assert.Equal(t, "Chicken Curry", result.Hits[0].Title)
	assert.Equal(t, "curry.jpg", result.Hits[0].ImageURL)
	assert.Equal(t, 102, result.Hits[1].ExternalID)
	assert.False(t, result.Hits[0].Data.HasNutrition(), "search payloads carry no nutrition")
}

func TestSearch_PageSizeCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("number"))
		w.Write([]byte(`{"results": [], "totalResults": 0}`))
	}))
	defer server.Close()

	_, err := newTestService(server.URL).Search(context.Background(), "chicken", 100)
	require.NoError(t, err)
}

func TestSearch_ResultsWithoutIDSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [{"title": "No ID"}, {"id": 7, "title": "Seven"}], "totalResults": 2}`))
	}))
	defer server.Close()

	result, err := newTestService(server.URL).Search(context.Background(), "odd", 10)

	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, 7, result.Hits[0].ExternalID)
}

func TestSearch_ServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestService(server.URL).Search(context.Background(), "chicken", 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
}

func TestSearch_RateLimitIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestService(server.URL).Search(context.Background(), "chicken", 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
}

func TestSearch_MalformedResponseIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": "this is not a list"`))
	}))
	defer server.Close()

	_, err := newTestService(server.URL).Search(context.Background(), "chicken", 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestFetchDetails_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recipes/12345/information", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("includeNutrition"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("apiKey"))

		w.Write([]byte(`{
			"id": 12345,
			"title": "Beef Stew",
			"image": "stew.jpg",
			"nutrition": {"nutrients": [{"name": "Calories", "amount": 450}]}
		}`))
	}))
	defer server.Close()

	doc, err := newTestService(server.URL).FetchDetails(context.Background(), 12345)

	require.NoError(t, err)
	assert.Equal(t, "Beef Stew", doc.Str("title"))
	assert.Equal(t, 12345, doc.Int("id"))
	assert.True(t, doc.HasNutrition())
}

func TestFetchDetails_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestService(server.URL).FetchDetails(context.Background(), 99999)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRecipeNotFound))
}

func TestFetchDetails_QuotaExhaustedIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	_, err := newTestService(server.URL).FetchDetails(context.Background(), 12345)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
}
