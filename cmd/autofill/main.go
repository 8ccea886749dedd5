// Package main provides the form-autofill command line tool and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "autofill",
	Short: "Fill job application forms from a user profile",
	Long: `autofill scans job application forms, classifies every field and fills it from a user profile.
Open-ended questions are answered by a Gemini model when an API key is configured.

Configuration can be loaded from a JSON file using --config. Command-line flags override config file values.`,
	SilenceUsage: true,
}

var (
	rootConfigPath  string
	rootVerbose     bool
	rootAPIKey      string
	rootDatabaseURL string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVar(&rootAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&rootDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
