package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/mealforge/recipedb/internal/domain"
)

// RecipeCacheRepo implements domain.RecipeCacheRepo on sqlite.
type RecipeCacheRepo struct {
	log zerolog.Logger
	db  *DB
}

// NewRecipeCacheRepo creates a new recipe cache repository
func NewRecipeCacheRepo(log zerolog.Logger, db *DB) domain.RecipeCacheRepo {
	return &RecipeCacheRepo{
		log: log.With().Str("repo", "recipe_cache").Logger(),
		db:  db,
	}
}

// Get returns the cached recipe for an upstream id, or domain.ErrCacheMiss.
func (r *RecipeCacheRepo) Get(ctx context.Context, externalID int) (*domain.CachedRecipe, error) {
	queryBuilder := r.db.squirrel.
		Select("id", "external_id", "title", "image_url", "data", "created_at", "updated_at").
		From("cached_recipes").
		Where(sq.Eq{"external_id": externalID})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Get")

	row := r.db.handler.QueryRowContext(ctx, query, args...)
	recipe, err := scanRecipe(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCacheMiss
		}
		return nil, errors.Wrap(err, "error scanning row")
	}

	return recipe, nil
}

// GetByExternalIDs returns the existing rows for the given ids, keyed by
// external id. Ids without a row are absent from the map.
func (r *RecipeCacheRepo) GetByExternalIDs(ctx context.Context, externalIDs []int) (map[int]*domain.CachedRecipe, error) {
	result := make(map[int]*domain.CachedRecipe, len(externalIDs))
	if len(externalIDs) == 0 {
		return result, nil
	}

	queryBuilder := r.db.squirrel.
		Select("id", "external_id", "title", "image_url", "data", "created_at", "updated_at").
		From("cached_recipes").
		Where(sq.Eq{"external_id": externalIDs})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("GetByExternalIDs")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	for rows.Next() {
		recipe, err := scanRecipe(rows.Scan)
		if err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}
		result[recipe.ExternalID] = recipe
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return result, nil
}

// Upsert inserts a row for externalID or overwrites its display fields and
// payload. The surrogate id and created_at survive refreshes; updated_at
// advances on every write.
func (r *RecipeCacheRepo) Upsert(ctx context.Context, externalID int, title, imageURL string, data domain.RecipeDocument) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "error encoding recipe payload")
	}

	now := time.Now().UTC().Format(time.RFC3339)

	queryBuilder := r.db.squirrel.
		Insert("cached_recipes").
		Columns("external_id", "title", "image_url", "data", "created_at", "updated_at").
		Values(externalID, title, imageURL, string(payload), now, now).
		Suffix(`ON CONFLICT (external_id) DO UPDATE SET
			title = excluded.title,
			image_url = excluded.image_url,
			data = excluded.data,
			updated_at = excluded.updated_at`)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Upsert")

	_, err = r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// scanRecipe decodes one cached_recipes row from a Scan-compatible source.
func scanRecipe(scan func(dest ...interface{}) error) (*domain.CachedRecipe, error) {
	var (
		recipe    domain.CachedRecipe
		payload   string
		createdAt string
		updatedAt string
	)

	if err := scan(&recipe.ID, &recipe.ExternalID, &recipe.Title, &recipe.ImageURL, &payload, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(payload), &recipe.Data); err != nil {
		return nil, errors.Wrap(err, "error decoding recipe payload")
	}

	var err error
	if recipe.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, errors.Wrap(err, "error parsing created_at")
	}
	if recipe.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, errors.Wrap(err, "error parsing updated_at")
	}

	return &recipe, nil
}
