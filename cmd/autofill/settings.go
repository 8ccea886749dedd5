package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/form-autofill/internal/config"
	"github.com/jonathan/form-autofill/internal/db"
	"github.com/jonathan/form-autofill/internal/profile"
)

// loadSettings merges, in increasing priority: environment defaults, the
// --config file and explicitly set flags. overrides applies the
// command's own flags.
func loadSettings(cmd *cobra.Command, overrides func(*config.Config)) (config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if rootVerbose {
			_, _ = fmt.Fprintf(os.Stderr, "Loaded config from: %s\n", rootConfigPath)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.APIKey = rootAPIKey
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = rootDatabaseURL
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rootVerbose
	}
	if overrides != nil {
		overrides(&cfg)
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openProfileSource returns the profile source the settings select. The
// returned database is nil unless the profile is stored there; callers close it.
func openProfileSource(ctx context.Context, cfg config.Config) (profile.Source, *db.DB, error) {
	switch {
	case cfg.Profile != "":
		return profile.FileSource{Path: cfg.Profile}, nil, nil
	case cfg.UserID != "":
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("--user-id needs a database (--db-url or DATABASE_URL)")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return profile.DBSource{Store: database, UserID: uuid.MustParse(cfg.UserID)}, database, nil
	default:
		return nil, nil, fmt.Errorf("either --profile or --user-id must be provided (via flag or config)")
	}
}
