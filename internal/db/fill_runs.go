package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DefaultFillRunLimit caps ListFillRuns when no limit is given
const DefaultFillRunLimit = 50

// RecordFillRun stores the outcome of a fill and returns its ID
func (db *DB) RecordFillRun(ctx context.Context, run *FillRun) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO fill_runs (user_id, page_url, job_title, company, filled, ai_answered)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		run.UserID, run.PageURL, run.JobTitle, run.Company, run.Filled, run.AIAnswered,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record fill run: %w", err)
	}
	return id, nil
}

// ListFillRuns returns a user's most recent fill runs, newest first
func (db *DB) ListFillRuns(ctx context.Context, userID uuid.UUID, limit int) ([]FillRun, error) {
	if limit <= 0 {
		limit = DefaultFillRunLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, page_url, job_title, company, filled, ai_answered, created_at
		 FROM fill_runs WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fill runs: %w", err)
	}
	defer rows.Close()

	var runs []FillRun
	for rows.Next() {
		var r FillRun
		if err := rows.Scan(&r.ID, &r.UserID, &r.PageURL, &r.JobTitle, &r.Company, &r.Filled, &r.AIAnswered, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fill run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list fill runs: %w", err)
	}
	return runs, nil
}
