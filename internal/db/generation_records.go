package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// InsertGenerationRecord appends one audit row for a model call. Records are
// append-only; nothing updates or deletes them.
func (db *DB) InsertGenerationRecord(ctx context.Context, input GenerationRecordInput) error {
	_, err := db.pool.Exec(ctx, `
		INSERT INTO generation_records
			(posting_id, role_id, model, prompt_length, response_length, duration_ms, outcome, error_text, raw_prompt, raw_response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		input.PostingID, input.RoleID, input.Model, input.PromptLength, input.ResponseLength,
		input.DurationMS, input.Outcome, input.ErrorText, input.RawPrompt, input.RawResponse)
	if err != nil {
		return fmt.Errorf("failed to insert generation record: %w", err)
	}
	return nil
}

// ListGenerationRecords returns a posting's audit rows, newest first.
func (db *DB) ListGenerationRecords(ctx context.Context, postingID uuid.UUID, limit int) ([]GenerationRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.pool.Query(ctx, `
		SELECT id, posting_id, role_id, model, prompt_length, response_length, duration_ms, outcome, error_text, raw_prompt, raw_response, created_at
		FROM generation_records WHERE posting_id = $1
		ORDER BY created_at DESC LIMIT $2`, postingID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation records: %w", err)
	}
	defer rows.Close()

	var records []GenerationRecord
	for rows.Next() {
		var r GenerationRecord
		err := rows.Scan(&r.ID, &r.PostingID, &r.RoleID, &r.Model, &r.PromptLength, &r.ResponseLength,
			&r.DurationMS, &r.Outcome, &r.ErrorText, &r.RawPrompt, &r.RawResponse, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generation records: %w", err)
	}
	return records, nil
}
