package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Defaults applied when a posting's plan config is created lazily.
const (
	DefaultCandidateMultiplier   = 10
	DefaultQuestionsPerCandidate = 5
)

// DefaultCategoryWeights returns the baseline weight distribution used for
// lazily created plan configs.
func DefaultCategoryWeights() map[string]int {
	return map[string]int{
		"professional_experience": 1,
		"theoretical_knowledge":   2,
		"practical_application":   2,
	}
}

func scanPlanConfig(row pgx.Row) (*GlobalPlanConfig, error) {
	var cfg GlobalPlanConfig
	var weightsRaw []byte
	err := row.Scan(&cfg.ID, &cfg.PostingID, &cfg.CandidateMultiplier, &cfg.QuestionsPerCandidate,
		&weightsRaw, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	// A malformed weights document is tolerated: the nil map makes the plan
	// calculator fall back to the default weight for every category.
	if err := json.Unmarshal(weightsRaw, &cfg.CategoryWeights); err != nil {
		cfg.CategoryWeights = nil
	}
	return &cfg, nil
}

const planConfigColumns = `id, posting_id, candidate_multiplier, questions_per_candidate, category_weights, created_at, updated_at`

// GetPlanConfig fetches a posting's plan config. Returns (nil, nil) when the
// posting has none yet.
func (db *DB) GetPlanConfig(ctx context.Context, postingID uuid.UUID) (*GlobalPlanConfig, error) {
	row := db.pool.QueryRow(ctx, `
		SELECT `+planConfigColumns+` FROM global_plan_configs WHERE posting_id = $1`, postingID)
	cfg, err := scanPlanConfig(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan config: %w", err)
	}
	return cfg, nil
}

// GetOrCreatePlanConfig fetches a posting's plan config, creating one with
// the default multiplier, per-candidate count, and weights when absent.
func (db *DB) GetOrCreatePlanConfig(ctx context.Context, postingID uuid.UUID) (*GlobalPlanConfig, error) {
	cfg, err := db.GetPlanConfig(ctx, postingID)
	if err != nil || cfg != nil {
		return cfg, err
	}

	weights, err := json.Marshal(DefaultCategoryWeights())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default weights: %w", err)
	}

	row := db.pool.QueryRow(ctx, `
		INSERT INTO global_plan_configs (posting_id, candidate_multiplier, questions_per_candidate, category_weights)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (posting_id) DO UPDATE SET posting_id = EXCLUDED.posting_id
		RETURNING `+planConfigColumns,
		postingID, DefaultCandidateMultiplier, DefaultQuestionsPerCandidate, weights)

	cfg, err = scanPlanConfig(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan config: %w", err)
	}
	return cfg, nil
}

// ReplacePlanConfig overwrites a posting's plan config and deletes every role
// question override under the posting in the same transaction. The returned
// count is how many overrides were invalidated by the baseline change.
func (db *DB) ReplacePlanConfig(ctx context.Context, postingID uuid.UUID, input PlanConfigInput) (*GlobalPlanConfig, int, error) {
	weights := input.CategoryWeights
	if weights == nil {
		weights = map[string]int{}
	}
	weightsRaw, err := json.Marshal(weights)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal category weights: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO global_plan_configs (posting_id, candidate_multiplier, questions_per_candidate, category_weights)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (posting_id) DO UPDATE SET
			candidate_multiplier = EXCLUDED.candidate_multiplier,
			questions_per_candidate = EXCLUDED.questions_per_candidate,
			category_weights = EXCLUDED.category_weights,
			updated_at = now()
		RETURNING `+planConfigColumns,
		postingID, input.CandidateMultiplier, input.QuestionsPerCandidate, weightsRaw)

	cfg, err := scanPlanConfig(row)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to replace plan config: %w", err)
	}

	// The new baseline invalidates every per-role override under the posting.
	tag, err := tx.Exec(ctx, `
		DELETE FROM role_question_configs
		WHERE role_id IN (SELECT id FROM roles WHERE posting_id = $1)`, postingID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to invalidate role overrides: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit plan config replace: %w", err)
	}
	return cfg, int(tag.RowsAffected()), nil
}
