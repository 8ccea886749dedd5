// Package profile loads the user profile a fill operation reads from.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/form-autofill/internal/schemas"
	"github.com/jonathan/form-autofill/internal/types"
)

// Source supplies one profile snapshot per fill.
type Source interface {
	LoadProfile(ctx context.Context) (*types.UserProfile, error)
}

// Store is the subset of the database a DBSource needs.
type Store interface {
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
}

// ErrNotFound is returned when a source has no profile.
var ErrNotFound = errors.New("profile not found")

// Static always returns the same profile.
type Static struct {
	Profile *types.UserProfile
}

// LoadProfile returns the static profile.
func (s Static) LoadProfile(context.Context) (*types.UserProfile, error) {
	if s.Profile == nil {
		return nil, ErrNotFound
	}
	return s.Profile, nil
}

// FileSource reads a profile from a JSON file on every load.
type FileSource struct {
	Path string
}

// LoadProfile reads and validates the profile file.
func (s FileSource) LoadProfile(context.Context) (*types.UserProfile, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", s.Path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", s.Path, err)
	}
	return p, nil
}

// DBSource loads a user's profile from the database.
type DBSource struct {
	Store  Store
	UserID uuid.UUID
}

// LoadProfile loads the stored profile for the source's user.
func (s DBSource) LoadProfile(ctx context.Context) (*types.UserProfile, error) {
	p, err := s.Store.GetUserProfile(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w for user %s", ErrNotFound, s.UserID)
	}
	return p, nil
}

// Parse decodes a profile document after checking it against the profile
// JSON Schema, then applies struct validation.
func Parse(data []byte) (*types.UserProfile, error) {
	if err := schemas.ValidateProfileJSON(data); err != nil {
		return nil, err
	}
	var p types.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
