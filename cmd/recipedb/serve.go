package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mealforge/recipedb/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the recipe API server",
	Long: `Serve starts the HTTP API:

  GET    /api/v1/recipes/search?query=&number=   search with caching
  GET    /api/v1/recipes/:id                     recipe details with caching
  DELETE /api/v1/recipes/cache/expired           sweep expired search entries

Search results are cached per normalized query for the configured TTL
(default 24h); recipe details are cached indefinitely and refreshed only
when the stored payload lacks nutrition data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		if err := application.Serve(); err != nil {
			return fmt.Errorf("serve failed: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
