package database

const cacheSchema = `
-- Full recipe payloads from the upstream provider. Rows never expire by
-- time; a row without a nutrition block is refreshed on the next detail
-- request.
CREATE TABLE cached_recipes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id INTEGER NOT NULL UNIQUE,
	title TEXT NOT NULL,
	image_url TEXT,
	data TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX idx_recipes_updated_at ON cached_recipes(updated_at);

-- Search results keyed by the hash of the normalized query text. result_ids
-- reference cached_recipes.external_id but rows may not exist yet; detail
-- hydration is lazy.
CREATE TABLE cached_search_queries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	query_hash TEXT NOT NULL UNIQUE,
	result_ids TEXT NOT NULL,
	total_results INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	expires_at TIMESTAMP NOT NULL
);

CREATE INDEX idx_search_expires_at ON cached_search_queries(expires_at);
`

// cacheMigrations contains incremental schema changes
// Each migration is applied in order based on the current user_version
// cacheMigrations[0] is empty because version 0 uses the base schema
var cacheMigrations = []string{
	"",
}
