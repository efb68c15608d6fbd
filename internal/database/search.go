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

// SearchCacheRepo implements domain.SearchCacheRepo on sqlite.
type SearchCacheRepo struct {
	log zerolog.Logger
	db  *DB
}

// NewSearchCacheRepo creates a new search cache repository
func NewSearchCacheRepo(log zerolog.Logger, db *DB) domain.SearchCacheRepo {
	return &SearchCacheRepo{
		log: log.With().Str("repo", "search_cache").Logger(),
		db:  db,
	}
}

// Get returns the cached search for a query hash, or domain.ErrCacheMiss.
// Rows are returned as stored; the caller decides freshness.
func (r *SearchCacheRepo) Get(ctx context.Context, queryHash string) (*domain.CachedSearchQuery, error) {
	queryBuilder := r.db.squirrel.
		Select("id", "query", "query_hash", "result_ids", "total_results", "created_at", "expires_at").
		From("cached_search_queries").
		Where(sq.Eq{"query_hash": queryHash})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Get")

	var (
		entry     domain.CachedSearchQuery
		resultIDs string
		createdAt string
		expiresAt string
	)

	row := r.db.handler.QueryRowContext(ctx, query, args...)
	err = row.Scan(&entry.ID, &entry.Query, &entry.QueryHash, &resultIDs, &entry.TotalResults, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCacheMiss
		}
		return nil, errors.Wrap(err, "error scanning row")
	}

	if err := json.Unmarshal([]byte(resultIDs), &entry.ResultIDs); err != nil {
		return nil, errors.Wrap(err, "error decoding result ids")
	}
	if entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, errors.Wrap(err, "error parsing created_at")
	}
	if entry.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
		return nil, errors.Wrap(err, "error parsing expires_at")
	}

	return &entry, nil
}

// Replace stores the entry, fully replacing any previous row for the same
// query hash. REPLACE deletes the conflicting row, so a refresh leaves
// exactly one row per hash.
func (r *SearchCacheRepo) Replace(ctx context.Context, entry *domain.CachedSearchQuery) error {
	ids := entry.ResultIDs
	if ids == nil {
		ids = []int{}
	}
	resultIDs, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrap(err, "error encoding result ids")
	}

	queryBuilder := r.db.squirrel.
		Replace("cached_search_queries").
		Columns("query", "query_hash", "result_ids", "total_results", "created_at", "expires_at").
		Values(
			entry.Query,
			entry.QueryHash,
			string(resultIDs),
			entry.TotalResults,
			entry.CreatedAt.UTC().Format(time.RFC3339),
			entry.ExpiresAt.UTC().Format(time.RFC3339),
		)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Replace")

	_, err = r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// DeleteExpired removes every search row whose expires_at is at or before
// the cutoff and returns the number of rows deleted.
func (r *SearchCacheRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	queryBuilder := r.db.squirrel.
		Delete("cached_search_queries").
		Where(sq.LtOrEq{"expires_at": cutoff.UTC().Format(time.RFC3339)})

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "error building delete query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("DeleteExpired")

	res, err := r.db.handler.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "error executing delete query")
	}

	purged, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "error reading rows affected")
	}

	return purged, nil
}
