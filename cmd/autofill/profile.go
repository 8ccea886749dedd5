package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/form-autofill/internal/config"
	"github.com/jonathan/form-autofill/internal/db"
	"github.com/jonathan/form-autofill/internal/profile"
	"github.com/jonathan/form-autofill/internal/server"
)

var importProfileCmd = &cobra.Command{
	Use:   "import-profile <profile.json>",
	Short: "Validate a profile file and store it in the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportProfile,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for a user (requires JWT_SECRET)",
	RunE:  runToken,
}

var (
	importUserID string
	tokenUserID  string
)

func init() {
	importProfileCmd.Flags().StringVar(&importUserID, "user-id", "", "User to store the profile for (a new ID is generated when empty)")
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "User the token authenticates")
	_ = tokenCmd.MarkFlagRequired("user-id")
	rootCmd.AddCommand(importProfileCmd, tokenCmd)
}

func runImportProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, nil)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	userID := uuid.New()
	if importUserID != "" {
		if userID, err = uuid.Parse(importUserID); err != nil {
			return fmt.Errorf("invalid --user-id: %w", err)
		}
	}

	ctx := cmd.Context()
	p, err := profile.FileSource{Path: args[0]}.LoadProfile(ctx)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	if err := database.SaveUserProfile(ctx, userID, p); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored profile for user %s\n", userID)
	return nil
}

func runToken(cmd *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(tokenUserID)
	if err != nil {
		return fmt.Errorf("invalid --user-id: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	token, err := server.NewJWTService(jwtConfig).GenerateToken(userID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
