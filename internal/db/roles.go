package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const roleColumns = `id, posting_id, name, multiplier, position_count, special_requirements, created_at, updated_at`

func scanRole(row pgx.Row) (*Role, error) {
	var r Role
	err := row.Scan(&r.ID, &r.PostingID, &r.Name, &r.Multiplier, &r.PositionCount,
		&r.SpecialRequirements, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRole inserts a new role under a posting.
func (db *DB) CreateRole(ctx context.Context, input RoleCreateInput) (*Role, error) {
	row := db.pool.QueryRow(ctx, `
		INSERT INTO roles (posting_id, name, multiplier, position_count, special_requirements)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+roleColumns,
		input.PostingID, input.Name, input.Multiplier, input.PositionCount, input.SpecialRequirements)

	r, err := scanRole(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return r, nil
}

// GetRole fetches a role by ID. Returns (nil, nil) when not found.
func (db *DB) GetRole(ctx context.Context, id uuid.UUID) (*Role, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	r, err := scanRole(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return r, nil
}

// UpdateRole applies partial updates to a role and returns the updated row.
// Returns (nil, nil) when the role does not exist.
func (db *DB) UpdateRole(ctx context.Context, id uuid.UUID, input RoleUpdateInput) (*Role, error) {
	row := db.pool.QueryRow(ctx, `
		UPDATE roles SET
			name = COALESCE($2, name),
			multiplier = COALESCE($3, multiplier),
			position_count = COALESCE($4, position_count),
			special_requirements = COALESCE($5, special_requirements),
			updated_at = now()
		WHERE id = $1
		RETURNING `+roleColumns,
		id, input.Name, input.Multiplier, input.PositionCount, input.SpecialRequirements)

	r, err := scanRole(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return r, nil
}

// ListRolesByPosting returns a posting's roles ordered by creation time.
func (db *DB) ListRolesByPosting(ctx context.Context, postingID uuid.UUID) ([]Role, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT `+roleColumns+` FROM roles
		WHERE posting_id = $1 ORDER BY created_at ASC`, postingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}
	return roles, nil
}

// DeleteRole removes a role and its dependent overrides and questions.
// Returns false when the role did not exist.
func (db *DB) DeleteRole(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete role: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
