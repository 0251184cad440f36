package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/generation"
	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/observability"
)

var generateVerbose bool

var generateCmd = &cobra.Command{
	Use:   "generate <posting-id> [posting-id...]",
	Short: "Generate interview questions for one or more postings",
	Long: `Generate runs the full question pipeline for each given posting:
plan projection per role, tiered prompt assembly, model calls, response
repair, and atomic persistence of each role's batch.

Multiple postings run concurrently; within a posting, role batches and
their slots run strictly in order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print per-slot progress")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	postingIDs := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return fmt.Errorf("invalid posting ID %q: %w", arg, err)
		}
		postingIDs = append(postingIDs, id)
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	client, err := llm.NewClient(ctx, modelConfig(cfg), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	reports := make([]*generation.PostingReport, len(postingIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, postingID := range postingIDs {
		g.Go(func() error {
			orch := generation.New(database, client)
			if generateVerbose || cfg.Verbose {
				orch.OnProgress = func(ev generation.ProgressEvent) {
					log.Printf("[%s] %s", postingID, ev.Message)
				}
			}

			report, err := orch.GeneratePosting(gctx, postingID)
			if err != nil {
				return fmt.Errorf("posting %s: %w", postingID, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	for _, report := range reports {
		printer.PrintPostingReport(report)
	}
	return nil
}
