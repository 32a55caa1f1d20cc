package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmoreno/cv-studio/internal/db"
	"github.com/dmoreno/cv-studio/internal/rates"
)

var syncRatesCmd = &cobra.Command{
	Use:   "sync-rates",
	Short: "Fetch live exchange rates into the Postgres mirror",
	Long:  "Fetches the current EUR snapshot from the live rates API and stores it in the database mirror, so the server can keep serving rates when the API is down. Intended for a cron job.",
	RunE:  runSyncRates,
}

func init() {
	rootCmd.AddCommand(syncRatesCmd)
}

func runSyncRates(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	snapshot, err := rates.NewClient().Latest(ctx, rates.DefaultTargets)
	if err != nil {
		return fmt.Errorf("failed to fetch live rates: %w", err)
	}

	if err := database.SaveRates(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to store rates: %w", err)
	}

	fmt.Printf("Stored %d rates for %s\n", len(snapshot.Rates), snapshot.Date)
	return nil
}
