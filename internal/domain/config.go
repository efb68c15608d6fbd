package domain

import "time"

// DefaultSearchCacheTTL is how long a cached search stays usable. Recipe
// details never expire by time.
const DefaultSearchCacheTTL = 24 * time.Hour

type Config struct {
	ProviderAPIKey  string        `toml:"provider_api_key" mapstructure:"provider_api_key"`
	ProviderBaseURL string        `toml:"provider_base_url" mapstructure:"provider_base_url"`
	SearchCacheTTL  time.Duration `toml:"search_cache_ttl" mapstructure:"search_cache_ttl"`
	DatabaseDir     string        `toml:"database_dir" mapstructure:"database_dir"`
	ListenAddr      string        `toml:"listen_addr" mapstructure:"listen_addr"`
}
