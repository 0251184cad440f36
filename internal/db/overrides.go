package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const overrideColumns = `rqc.id, rqc.role_id, rqc.category_id, qc.code, rqc.question_count, rqc.difficulty_label, rqc.created_at, rqc.updated_at`

func scanOverride(row pgx.Row) (*RoleQuestionConfig, error) {
	var o RoleQuestionConfig
	err := row.Scan(&o.ID, &o.RoleID, &o.CategoryID, &o.CategoryCode,
		&o.QuestionCount, &o.DifficultyLabel, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpsertOverride creates or replaces a role's override for one category,
// resolving the category by code. Returns (nil, nil) when the category code
// is unknown.
func (db *DB) UpsertOverride(ctx context.Context, input OverrideInput) (*RoleQuestionConfig, error) {
	category, err := db.GetCategoryByCode(ctx, input.CategoryCode)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, nil
	}

	row := db.pool.QueryRow(ctx, `
		WITH upserted AS (
			INSERT INTO role_question_configs (role_id, category_id, question_count, difficulty_label)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (role_id, category_id) DO UPDATE SET
				question_count = EXCLUDED.question_count,
				difficulty_label = EXCLUDED.difficulty_label,
				updated_at = now()
			RETURNING *
		)
		SELECT `+overrideColumns+`
		FROM upserted rqc JOIN question_categories qc ON qc.id = rqc.category_id`,
		input.RoleID, category.ID, input.QuestionCount, input.DifficultyLabel)

	o, err := scanOverride(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert override: %w", err)
	}
	return o, nil
}

// BulkUpsertOverrides applies a set of overrides atomically: either every
// entry lands or none do. Unknown category codes abort the whole batch.
func (db *DB) BulkUpsertOverrides(ctx context.Context, inputs []OverrideInput) ([]RoleQuestionConfig, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var results []RoleQuestionConfig
	for _, input := range inputs {
		row := tx.QueryRow(ctx, `
			WITH category AS (
				SELECT id, code FROM question_categories WHERE code = $2
			), upserted AS (
				INSERT INTO role_question_configs (role_id, category_id, question_count, difficulty_label)
				SELECT $1, category.id, $3, $4 FROM category
				ON CONFLICT (role_id, category_id) DO UPDATE SET
					question_count = EXCLUDED.question_count,
					difficulty_label = EXCLUDED.difficulty_label,
					updated_at = now()
				RETURNING *
			)
			SELECT `+overrideColumns+`
			FROM upserted rqc JOIN question_categories qc ON qc.id = rqc.category_id`,
			input.RoleID, input.CategoryCode, input.QuestionCount, input.DifficultyLabel)

		o, err := scanOverride(row)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert override for category %s: %w", input.CategoryCode, err)
		}
		results = append(results, *o)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit override batch: %w", err)
	}
	return results, nil
}

// ListOverridesByRole returns a role's overrides keyed by category.
func (db *DB) ListOverridesByRole(ctx context.Context, roleID uuid.UUID) ([]RoleQuestionConfig, error) {
	return db.listOverrides(ctx, `WHERE rqc.role_id = $1`, roleID)
}

// ListOverridesByPosting returns every override under a posting's roles.
func (db *DB) ListOverridesByPosting(ctx context.Context, postingID uuid.UUID) ([]RoleQuestionConfig, error) {
	return db.listOverrides(ctx,
		`WHERE rqc.role_id IN (SELECT id FROM roles WHERE posting_id = $1)`, postingID)
}

func (db *DB) listOverrides(ctx context.Context, where string, arg any) ([]RoleQuestionConfig, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT `+overrideColumns+`
		FROM role_question_configs rqc
		JOIN question_categories qc ON qc.id = rqc.category_id
		`+where+` ORDER BY qc.order_index ASC`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer rows.Close()

	var overrides []RoleQuestionConfig
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		overrides = append(overrides, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overrides: %w", err)
	}
	return overrides, nil
}

// DeleteOverride removes a single override row. Returns false when it did
// not exist.
func (db *DB) DeleteOverride(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM role_question_configs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete override: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
