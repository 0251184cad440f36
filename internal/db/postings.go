package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreatePosting inserts a new posting. Titles are unique; a clash returns
// ErrDuplicateTitle.
func (db *DB) CreatePosting(ctx context.Context, input PostingCreateInput) (*Posting, error) {
	existing, err := db.GetPostingByTitle(ctx, input.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateTitle
	}

	var p Posting
	err = db.pool.QueryRow(ctx, `
		INSERT INTO postings (title, body, general_requirements)
		VALUES ($1, $2, $3)
		RETURNING id, title, body, general_requirements, created_at, updated_at`,
		input.Title, input.Body, input.GeneralRequirements,
	).Scan(&p.ID, &p.Title, &p.Body, &p.GeneralRequirements, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create posting: %w", err)
	}
	return &p, nil
}

// GetPosting fetches a posting by ID. Returns (nil, nil) when not found.
func (db *DB) GetPosting(ctx context.Context, id uuid.UUID) (*Posting, error) {
	var p Posting
	err := db.pool.QueryRow(ctx, `
		SELECT id, title, body, general_requirements, created_at, updated_at
		FROM postings WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Body, &p.GeneralRequirements, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}
	return &p, nil
}

// GetPostingByTitle fetches a posting by its unique title. Returns (nil, nil)
// when not found.
func (db *DB) GetPostingByTitle(ctx context.Context, title string) (*Posting, error) {
	var p Posting
	err := db.pool.QueryRow(ctx, `
		SELECT id, title, body, general_requirements, created_at, updated_at
		FROM postings WHERE title = $1`, title,
	).Scan(&p.ID, &p.Title, &p.Body, &p.GeneralRequirements, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get posting by title: %w", err)
	}
	return &p, nil
}

// ListPostings returns postings newest first, capped at limit (0 means 50).
func (db *DB) ListPostings(ctx context.Context, limit int) ([]Posting, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx, `
		SELECT id, title, body, general_requirements, created_at, updated_at
		FROM postings ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer rows.Close()

	var postings []Posting
	for rows.Next() {
		var p Posting
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.GeneralRequirements, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate postings: %w", err)
	}
	return postings, nil
}

// DeletePosting removes a posting and, via cascading foreign keys, its roles,
// configs, questions, and generation records. Returns false when the posting
// did not exist.
func (db *DB) DeletePosting(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM postings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete posting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
