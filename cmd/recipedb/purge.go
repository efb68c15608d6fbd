package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mealforge/recipedb/internal/app"
)

var purgeCmd = &cobra.Command{
	Use:   "purge-cache",
	Short: "Delete expired search cache entries",
	Long: `Purge-cache runs the maintenance sweep once and exits. Expired search
entries are already ignored at read time, so this only reclaims space;
suitable for a cron job.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		purged, err := application.PurgeCache(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Purged %d expired search cache entries\n", purged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}
