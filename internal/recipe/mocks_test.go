package recipe

import (
	"context"
	"sync"
	"time"

	"github.com/mealforge/recipedb/internal/domain"
)

// memSearchRepo is an in-memory implementation of domain.SearchCacheRepo.
type memSearchRepo struct {
	mu         sync.Mutex
	rows       map[string]*domain.CachedSearchQuery
	nextID     int64
	getErr     error
	replaceErr error
}

func newMemSearchRepo() *memSearchRepo {
	return &memSearchRepo{rows: make(map[string]*domain.CachedSearchQuery)}
}

func (m *memSearchRepo) Get(_ context.Context, queryHash string) (*domain.CachedSearchQuery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}

	row, ok := m.rows[queryHash]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	copied := *row
	return &copied, nil
}

func (m *memSearchRepo) Replace(_ context.Context, entry *domain.CachedSearchQuery) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.replaceErr != nil {
		return m.replaceErr
	}

	m.nextID++
	copied := *entry
	copied.ID = m.nextID
	m.rows[entry.QueryHash] = &copied
	return nil
}

func (m *memSearchRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var purged int64
	for hash, row := range m.rows {
		if !row.ExpiresAt.After(cutoff) {
			delete(m.rows, hash)
			purged++
		}
	}
	return purged, nil
}

func (m *memSearchRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memRecipeRepo is an in-memory implementation of domain.RecipeCacheRepo.
type memRecipeRepo struct {
	mu        sync.Mutex
	rows      map[int]*domain.CachedRecipe
	nextID    int64
	getErr    error
	upsertErr error
}

func newMemRecipeRepo() *memRecipeRepo {
	return &memRecipeRepo{rows: make(map[int]*domain.CachedRecipe)}
}

func (m *memRecipeRepo) Get(_ context.Context, externalID int) (*domain.CachedRecipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}

	row, ok := m.rows[externalID]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	copied := *row
	return &copied, nil
}

func (m *memRecipeRepo) GetByExternalIDs(_ context.Context, externalIDs []int) (map[int]*domain.CachedRecipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}

	result := make(map[int]*domain.CachedRecipe, len(externalIDs))
	for _, id := range externalIDs {
		if row, ok := m.rows[id]; ok {
			copied := *row
			result[id] = &copied
		}
	}
	return result, nil
}

func (m *memRecipeRepo) Upsert(_ context.Context, externalID int, title, imageURL string, data domain.RecipeDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upsertErr != nil {
		return m.upsertErr
	}

	now := time.Now().UTC()
	if existing, ok := m.rows[externalID]; ok {
		existing.Title = title
		existing.ImageURL = imageURL
		existing.Data = data
		existing.UpdatedAt = now
		return nil
	}

	m.nextID++
	m.rows[externalID] = &domain.CachedRecipe{
		ID:         m.nextID,
		ExternalID: externalID,
		Title:      title,
		ImageURL:   imageURL,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

func (m *memRecipeRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// mockUpstream is a mock implementation of spoonacular.Service.
type mockUpstream struct {
	searchResult *domain.SearchResult
	searchErr    error
	searchCalls  int
	lastLimit    int

	detailsDoc  domain.RecipeDocument
	detailsErr  error
	detailCalls int
}

func (m *mockUpstream) Search(_ context.Context, query string, limit int) (*domain.SearchResult, error) {
	m.searchCalls++
	m.lastLimit = limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResult, nil
}

func (m *mockUpstream) FetchDetails(_ context.Context, externalID int) (domain.RecipeDocument, error) {
	m.detailCalls++
	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	return m.detailsDoc, nil
}
