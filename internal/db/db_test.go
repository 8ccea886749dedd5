package db

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/form-autofill/internal/types"
)

func TestSchema(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"user_profiles", "employment_entries", "fill_runs"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestEncodeProfile(t *testing.T) {
	existing := uuid.New()
	p := &types.UserProfile{
		FirstName: "Ada",
		Skills:    []string{"Go"},
		EmploymentHistory: []types.EmploymentEntry{
			{ID: existing, JobTitle: "Analyst", Company: "Babbage"},
			{JobTitle: "Engineer", Company: "Engines", IsCurrent: true},
		},
	}

	data, entries, err := encodeProfile(p)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Ada", doc["first_name"])
	assert.Nil(t, doc["employment_history"])

	require.Len(t, entries, 2)
	assert.Equal(t, existing, entries[0].ID)
	assert.NotEqual(t, uuid.Nil, entries[1].ID)
	assert.Equal(t, "Engineer", entries[1].JobTitle)

	// The caller's profile is not modified.
	assert.Equal(t, uuid.Nil, p.EmploymentHistory[1].ID)
	assert.Len(t, p.EmploymentHistory, 2)
}

func TestDecodeProfile(t *testing.T) {
	entries := []types.EmploymentEntry{{JobTitle: "Engineer", Company: "Engines"}}
	p, err := decodeProfile([]byte(`{"first_name":"Ada","needs_sponsorship":true}`), entries)
	require.NoError(t, err)

	assert.Equal(t, "Ada", p.FirstName)
	assert.True(t, p.NeedsSponsorship)
	assert.Equal(t, entries, p.EmploymentHistory)

	_, err = decodeProfile([]byte(`not json`), nil)
	assert.Error(t, err)
}
