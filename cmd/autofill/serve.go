package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/form-autofill/internal/config"
	"github.com/jonathan/form-autofill/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing /v1/scan and /v1/autofill, plus profile storage for authenticated users.
Requires DATABASE_URL and JWT_SECRET. Without GEMINI_API_KEY open questions are left empty.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd, func(c *config.Config) {
		if cmd.Flags().Changed("port") {
			c.Port = servePort
		}
	})
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		DatabaseURL: cfg.DatabaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		AITimeout:   cfg.AITimeout(),
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}
