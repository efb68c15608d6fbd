package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mealforge/recipedb/internal/config"
	"github.com/mealforge/recipedb/internal/database"
	"github.com/mealforge/recipedb/internal/domain"
	httpapi "github.com/mealforge/recipedb/internal/http"
	"github.com/mealforge/recipedb/internal/logger"
	"github.com/mealforge/recipedb/internal/recipe"
	"github.com/mealforge/recipedb/internal/spoonacular"
)

// App represents the application with all dependencies initialized
type App struct {
	log           zerolog.Logger
	config        *domain.Config
	db            *database.DB
	recipeService recipe.Service
}

// NewApp creates a new application instance with all dependencies initialized
func NewApp() (*App, error) {
	log := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewDB(cfg.DatabaseDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	searchRepo := database.NewSearchCacheRepo(log, db)
	recipeRepo := database.NewRecipeCacheRepo(log, db)

	searchCache := recipe.NewSearchCache(log, searchRepo, cfg.SearchCacheTTL)
	detailCache := recipe.NewDetailCache(log, recipeRepo)
	upstream := spoonacular.NewService(log, cfg)

	recipeService := recipe.NewService(log, searchCache, detailCache, upstream)

	return &App{
		log:           log,
		config:        cfg,
		db:            db,
		recipeService: recipeService,
	}, nil
}

// Serve runs the HTTP API until the listener fails.
func (a *App) Serve() error {
	defer a.db.Close()

	router := httpapi.NewRouter(a.log, a.recipeService)

	a.log.Info().Str("addr", a.config.ListenAddr).Msg("starting recipedb API")
	if err := router.Run(a.config.ListenAddr); err != nil {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

// PurgeCache runs the expired-search sweep once and reports the count.
func (a *App) PurgeCache(ctx context.Context) (int64, error) {
	defer a.db.Close()

	purged, err := a.recipeService.PurgeExpiredSearches(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge failed: %w", err)
	}

	return purged, nil
}
