package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const questionColumns = `id, role_id, posting_id, category_code, question_text, expected_answer, scoring_notes, difficulty_label, model, degraded, created_at`

func scanQuestion(row pgx.Row) (*Question, error) {
	var q Question
	err := row.Scan(&q.ID, &q.RoleID, &q.PostingID, &q.CategoryCode, &q.QuestionText,
		&q.ExpectedAnswer, &q.ScoringNotes, &q.DifficultyLabel, &q.Model, &q.Degraded, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// InsertQuestionBatch persists a batch of questions in a single transaction.
// Either the whole batch lands or none of it does; a batch is never split.
func (db *DB) InsertQuestionBatch(ctx context.Context, inputs []QuestionCreateInput) error {
	if len(inputs) == 0 {
		return ErrNothingToPersist
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, input := range inputs {
		_, err := tx.Exec(ctx, `
			INSERT INTO questions (role_id, posting_id, category_code, question_text, expected_answer, scoring_notes, difficulty_label, model, degraded)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			input.RoleID, input.PostingID, input.CategoryCode, input.QuestionText,
			input.ExpectedAnswer, input.ScoringNotes, input.DifficultyLabel, input.Model, input.Degraded)
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit question batch: %w", err)
	}
	return nil
}

// ListQuestionsByPosting returns every question under a posting, grouped by
// role and category order for stable presentation.
func (db *DB) ListQuestionsByPosting(ctx context.Context, postingID uuid.UUID) ([]Question, error) {
	return db.listQuestions(ctx, `WHERE posting_id = $1`, postingID)
}

// ListQuestionsByRole returns a role's questions in insertion order.
func (db *DB) ListQuestionsByRole(ctx context.Context, roleID uuid.UUID) ([]Question, error) {
	return db.listQuestions(ctx, `WHERE role_id = $1`, roleID)
}

func (db *DB) listQuestions(ctx context.Context, where string, arg any) ([]Question, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT `+questionColumns+` FROM questions
		`+where+` ORDER BY role_id, category_code, created_at ASC`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}
	return questions, nil
}
