package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"barpos/internal/core/logger"
	"barpos/internal/database"
	"barpos/internal/database/migration"
	"barpos/internal/inventory/stocks"
	"barpos/internal/repository"
	"barpos/internal/transfers"

	"github.com/spf13/cobra"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migrations manually.",
	Long:  `Command that exists and should be used only for development purposes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		migrationDir, _ := cmd.Flags().GetString("dir")

		err := migration.Migrate(
			dbURL,
			fmt.Sprintf("file://%s", migrationDir),
			true,
			logger.NewLogger(),
		)
		if err != nil {
			log.Println(err.Error())
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

// ExpireTransfersCmd runs one reconciliation pass over pending
// transfers. Meant for cron; the same logic is exposed over HTTP for
// manual runs.
var ExpireTransfersCmd = &cobra.Command{
	Use:   "expire-transfers",
	Short: "Expire pending transfers older than 24 hours and restore source stock.",
	RunE: func(_ *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}

		db, err := database.NewPostgresConnection(dbURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		zapLogger := logger.NewLogger()
		defer zapLogger.Sync()

		repo := repository.NewRepository(db)
		service := transfers.NewService(
			repo,
			transfers.NewRepository(repo),
			stocks.NewRepository(repo),
			zapLogger,
		)

		result, err := service.ExpireOverdueTransfers()
		if err != nil {
			return fmt.Errorf("expire transfers: %w", err)
		}

		log.Printf("Expired %d of %d overdue transfers", result.Processed, result.Total)
		for _, msg := range result.Errors {
			log.Printf("reconciliation error: %s", msg)
		}

		return nil
	},
}

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:   "barpos",
		Short: "Bar point of sale and inventory service",
	}
	MigrateCmd.Flags().String("dir", "../../migrations", "Directory containing the migration files")
	rootCmd.AddCommand(MigrateCmd)
	rootCmd.AddCommand(ExpireTransfersCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
