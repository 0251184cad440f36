package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-agent/internal/db"
	"github.com/jonathan/interview-agent/internal/observability"
	"github.com/jonathan/interview-agent/internal/plan"
	"github.com/jonathan/interview-agent/internal/rubric"
)

var planCmd = &cobra.Command{
	Use:   "plan <posting-id>",
	Short: "Show the question plan for a posting without generating",
	Long: `Plan projects the per-role, per-category question counts a
generation run would produce: resolved difficulty tiers, derived counts,
and any pinned overrides.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	postingID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid posting ID %q: %w", args[0], err)
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	posting, err := database.GetPosting(ctx, postingID)
	if err != nil {
		return err
	}
	if posting == nil {
		return fmt.Errorf("posting %s not found", postingID)
	}

	planConfig, err := database.GetOrCreatePlanConfig(ctx, postingID)
	if err != nil {
		return err
	}

	categories, err := database.ListActiveCategories(ctx)
	if err != nil {
		return err
	}
	planCategories := make([]plan.Category, 0, len(categories))
	for _, c := range categories {
		planCategories = append(planCategories, plan.Category{Code: c.Code, Name: c.Name})
	}

	roles, err := database.ListRolesByPosting(ctx, postingID)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return fmt.Errorf("posting %q has no roles", posting.Title)
	}

	fmt.Printf("Posting %q: %d role(s), candidate multiplier %d\n\n",
		posting.Title, len(roles), planConfig.CandidateMultiplier)

	printer := observability.NewPrinter(os.Stdout)
	for _, role := range roles {
		overrides, err := database.ListOverridesByRole(ctx, role.ID)
		if err != nil {
			return err
		}
		overrideMap := make(map[string]plan.Override, len(overrides))
		for _, ov := range overrides {
			overrideMap[ov.CategoryCode] = plan.Override{
				Count:           ov.QuestionCount,
				DifficultyLabel: ov.DifficultyLabel,
			}
		}

		tier := rubric.Resolve(role.Multiplier)
		rolePlan := plan.Calculate(
			plan.RoleSizing{PositionCount: role.PositionCount, Multiplier: role.Multiplier},
			plan.GlobalPlan{
				CandidateMultiplier:   planConfig.CandidateMultiplier,
				QuestionsPerCandidate: planConfig.QuestionsPerCandidate,
				CategoryWeights:       planConfig.CategoryWeights,
			},
			overrideMap, planCategories)

		printer.PrintRolePlan(role.Name, tier, rolePlan)
	}
	return nil
}
