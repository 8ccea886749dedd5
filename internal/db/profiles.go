package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/form-autofill/internal/types"
)

// -----------------------------------------------------------------------------
// Profile Methods
// -----------------------------------------------------------------------------

// GetUserProfile loads a user's profile with its employment history in stored order.
// Returns nil, nil when the user has no profile.
func (db *DB) GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT profile FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, job_title, company, start_date, end_date, is_current, description
		 FROM employment_entries WHERE user_id = $1 ORDER BY ordinal`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list employment entries: %w", err)
	}
	defer rows.Close()

	var entries []types.EmploymentEntry
	for rows.Next() {
		var e types.EmploymentEntry
		if err := rows.Scan(&e.ID, &e.JobTitle, &e.Company, &e.StartDate, &e.EndDate, &e.IsCurrent, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan employment entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list employment entries: %w", err)
	}

	return decodeProfile(data, entries)
}

// SaveUserProfile creates or replaces a user's profile.
// Employment entries without an ID are assigned one.
func (db *DB) SaveUserProfile(ctx context.Context, userID uuid.UUID, p *types.UserProfile) error {
	if p == nil {
		return fmt.Errorf("profile cannot be nil")
	}
	data, entries, err := encodeProfile(p)
	if err != nil {
		return err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO user_profiles (user_id, profile)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET profile = $2, updated_at = NOW()`,
		userID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM employment_entries WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear employment entries: %w", err)
	}

	for i, e := range entries {
		_, err = tx.Exec(ctx,
			`INSERT INTO employment_entries
			   (id, user_id, ordinal, job_title, company, start_date, end_date, is_current, description)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.ID, userID, i, e.JobTitle, e.Company, e.StartDate, e.EndDate, e.IsCurrent, e.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to save employment entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}
	return nil
}

// DeleteUserProfile removes a user's profile and employment history
func (db *DB) DeleteUserProfile(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
