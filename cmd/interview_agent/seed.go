package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-agent/internal/db"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply the database schema and seed default question categories",
	Long: `Seed applies the schema (idempotently) and upserts the built-in
question category set: professional_experience, theoretical_knowledge,
and practical_application.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := database.SeedDefaultCategories(ctx); err != nil {
		return err
	}

	fmt.Println("Schema applied and default categories seeded")
	return nil
}
