package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/form-autofill/internal/types"
)

// FillRun records the outcome of one autofill invocation
type FillRun struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	PageURL    string     `json:"page_url"`
	JobTitle   string     `json:"job_title"`
	Company    string     `json:"company"`
	Filled     int        `json:"filled"`
	AIAnswered int        `json:"ai_answered"`
	CreatedAt  time.Time  `json:"created_at"`
}

// encodeProfile splits a profile into its JSONB document and its employment entries.
// Employment history lives in its own table so entry order and IDs are kept.
func encodeProfile(p *types.UserProfile) ([]byte, []types.EmploymentEntry, error) {
	doc := *p
	entries := make([]types.EmploymentEntry, len(p.EmploymentHistory))
	copy(entries, p.EmploymentHistory)
	doc.EmploymentHistory = nil

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	for i := range entries {
		if entries[i].ID == uuid.Nil {
			entries[i].ID = uuid.New()
		}
	}
	return data, entries, nil
}

// decodeProfile rebuilds a profile from its JSONB document and ordered entries.
func decodeProfile(data []byte, entries []types.EmploymentEntry) (*types.UserProfile, error) {
	var p types.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	p.EmploymentHistory = entries
	return &p, nil
}
