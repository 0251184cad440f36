package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, code, name, description, order_index, active, created_at`

func scanCategory(row pgx.Row) (*QuestionCategory, error) {
	var c QuestionCategory
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.OrderIndex, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a new question category. Codes are unique; a clash
// returns ErrDuplicateCode.
func (db *DB) CreateCategory(ctx context.Context, input CategoryCreateInput) (*QuestionCategory, error) {
	existing, err := db.GetCategoryByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateCode
	}

	row := db.pool.QueryRow(ctx, `
		INSERT INTO question_categories (code, name, description, order_index)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns, input.Code, input.Name, input.Description, input.OrderIndex)

	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

// GetCategoryByCode fetches a category by code regardless of active state.
// Returns (nil, nil) when not found.
func (db *DB) GetCategoryByCode(ctx context.Context, code string) (*QuestionCategory, error) {
	row := db.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM question_categories WHERE code = $1`, code)
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// ListActiveCategories returns active categories in their display order.
// This ordering drives the sequential slot order during generation.
func (db *DB) ListActiveCategories(ctx context.Context) ([]QuestionCategory, error) {
	return db.listCategories(ctx, `WHERE active = TRUE`)
}

// ListCategories returns all categories, active or not, in display order.
func (db *DB) ListCategories(ctx context.Context) ([]QuestionCategory, error) {
	return db.listCategories(ctx, ``)
}

func (db *DB) listCategories(ctx context.Context, where string) ([]QuestionCategory, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT `+categoryColumns+` FROM question_categories `+where+`
		ORDER BY order_index ASC, code ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []QuestionCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory updates a category's display attributes and active flag.
// Returns (nil, nil) when the category does not exist.
func (db *DB) UpdateCategory(ctx context.Context, id uuid.UUID, name, description string, orderIndex int, active bool) (*QuestionCategory, error) {
	row := db.pool.QueryRow(ctx, `
		UPDATE question_categories SET name = $2, description = $3, order_index = $4, active = $5
		WHERE id = $1
		RETURNING `+categoryColumns, id, name, description, orderIndex, active)

	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes a category. A category still referenced by role
// question overrides is deactivated instead of deleted so existing configs
// keep resolving; the returned flag reports whether a hard delete happened.
func (db *DB) DeleteCategory(ctx context.Context, id uuid.UUID) (deleted bool, err error) {
	var refs int
	err = db.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM role_question_configs WHERE category_id = $1`, id).Scan(&refs)
	if err != nil {
		return false, fmt.Errorf("failed to count category references: %w", err)
	}

	if refs > 0 {
		_, err = db.pool.Exec(ctx, `
			UPDATE question_categories SET active = FALSE WHERE id = $1`, id)
		if err != nil {
			return false, fmt.Errorf("failed to deactivate category: %w", err)
		}
		return false, nil
	}

	_, err = db.pool.Exec(ctx, `DELETE FROM question_categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	return true, nil
}

// SeedDefaultCategories upserts the built-in category set. Existing rows keep
// their active flag; only the display name and order are refreshed.
func (db *DB) SeedDefaultCategories(ctx context.Context) error {
	defaults := []struct {
		code        string
		name        string
		description string
		order       int
	}{
		{"professional_experience", "Professional Experience",
			"Questions assessing the candidate's past work and projects", 1},
		{"theoretical_knowledge", "Theoretical Knowledge",
			"Questions assessing conceptual and technical knowledge", 2},
		{"practical_application", "Practical Application",
			"Questions assessing how knowledge is applied to real problems", 3},
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, d := range defaults {
		_, err := tx.Exec(ctx, `
			INSERT INTO question_categories (code, name, description, order_index)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, order_index = EXCLUDED.order_index`,
			d.code, d.name, d.description, d.order)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", d.code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit category seed: %w", err)
	}
	return nil
}
