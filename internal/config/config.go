package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mealforge/recipedb/internal/domain"
)

// Load loads configuration from multiple sources:
// 1. Config file (config.yaml, optional)
// 2. Environment variables (RECIPEDB_*)
func Load() (*domain.Config, error) {
	cfg := &domain.Config{}

	cfg.ProviderAPIKey = viper.GetString("provider_api_key")
	cfg.ProviderBaseURL = viper.GetString("provider_base_url")
	cfg.SearchCacheTTL = viper.GetDuration("search_cache_ttl")
	cfg.DatabaseDir = viper.GetString("database_dir")
	cfg.ListenAddr = viper.GetString("listen_addr")

	if cfg.ProviderBaseURL == "" {
		cfg.ProviderBaseURL = "https://api.spoonacular.com"
	}
	if cfg.SearchCacheTTL <= 0 {
		cfg.SearchCacheTTL = domain.DefaultSearchCacheTTL
	}
	if cfg.DatabaseDir == "" {
		cfg.DatabaseDir = "."
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	// Validate required fields
	if cfg.ProviderAPIKey == "" {
		return nil, fmt.Errorf("provider_api_key is required (set via config.yaml or RECIPEDB_PROVIDER_API_KEY environment variable)")
	}

	return cfg, nil
}
