package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/form-autofill/internal/answering"
	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/config"
	"github.com/jonathan/form-autofill/internal/db"
	"github.com/jonathan/form-autofill/internal/jobcontext"
	"github.com/jonathan/form-autofill/internal/llm"
	"github.com/jonathan/form-autofill/internal/observability"
	"github.com/jonathan/form-autofill/internal/profile"
	"github.com/jonathan/form-autofill/internal/types"
)

var fillCmd = &cobra.Command{
	Use:   "fill <page>",
	Short: "Fill an application form from a profile",
	Long: `Loads the page (a URL or a saved HTML file), fills every field it can classify from the profile,
answers open questions with the model when one is available, and writes the filled HTML.`,
	Args: cobra.ExactArgs(1),
	RunE: runFillCmd,
}

var (
	fillProfile    string
	fillUserID     string
	fillPageURL    string
	fillOut        string
	fillModel      string
	fillAITimeout  int
	fillUseBrowser bool
)

func init() {
	fillCmd.Flags().StringVarP(&fillProfile, "profile", "p", "", "Path to user profile JSON (mutually exclusive with --user-id)")
	fillCmd.Flags().StringVar(&fillUserID, "user-id", "", "Load the stored profile of this user (requires a database)")
	fillCmd.Flags().StringVar(&fillPageURL, "url", "", "Page URL for a saved HTML file, used to detect the job posting")
	fillCmd.Flags().StringVarP(&fillOut, "out", "o", "", "Write the filled HTML to this file ('-' for stdout)")
	fillCmd.Flags().StringVar(&fillModel, "model", "", "Model used to answer open questions")
	fillCmd.Flags().IntVar(&fillAITimeout, "ai-timeout", 0, "Seconds allowed for one answer")
	fillCmd.Flags().BoolVar(&fillUseBrowser, "use-browser", false, "Use headless browser for pages rendered client-side (requires Chrome)")
	rootCmd.AddCommand(fillCmd)
}

func runFillCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd, func(c *config.Config) {
		if cmd.Flags().Changed("profile") {
			c.Profile = fillProfile
		}
		if cmd.Flags().Changed("user-id") {
			c.UserID = fillUserID
		}
		if cmd.Flags().Changed("model") {
			c.Model = fillModel
		}
		if cmd.Flags().Changed("ai-timeout") {
			c.AITimeoutSeconds = fillAITimeout
		}
		if cmd.Flags().Changed("use-browser") {
			c.UseBrowser = fillUseBrowser
		}
	})
	if err != nil {
		return err
	}

	return fill(cmd.Context(), cfg, fillRequest{
		Page: pageOptions{Source: args[0], URL: fillPageURL, UseBrowser: cfg.UseBrowser, Verbose: cfg.Verbose},
		Out:  fillOut,
	}, cmd.OutOrStdout())
}

type fillRequest struct {
	Page pageOptions
	Out  string
}

// fill loads the profile and the page concurrently, then runs both passes.
func fill(ctx context.Context, cfg config.Config, req fillRequest, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	source, database, err := openProfileSource(ctx, cfg)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	var (
		p  *types.UserProfile
		pg *page
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := source.LoadProfile(gctx)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		p = loaded
		return nil
	})
	g.Go(func() error {
		opened, err := openPage(gctx, req.Page)
		if err != nil {
			return err
		}
		pg = opened
		return nil
	})
	if err := g.Wait(); err != nil {
		if pg != nil {
			pg.close()
		}
		return err
	}
	defer pg.close()

	var answerer autofill.Answerer
	if cfg.APIKey != "" {
		inference := prepareInference(ctx, cfg)
		defer func() { _ = inference.Close() }()
		answerer = answering.NewPipeline(inference, cfg.AITimeout(), cfg.Verbose)
	} else if cfg.Verbose {
		log.Printf("[AUTOFILL] No API key; open questions will be left empty")
	}

	jobs := jobcontext.NewCachedSource(jobcontext.NewExtractor(cfg.Verbose), nil)
	orch := autofill.New(profile.Static{Profile: p}, answerer, jobs, cfg.Verbose)
	result, err := orch.Run(ctx, pg.doc, pg.url)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stderr)
	if req.Out == "-" {
		printer = observability.NewPrinter(io.Discard)
	}
	job := jobs.Extract(pg.doc, pg.url)
	printer.PrintJobContext(job)
	printer.PrintFillResult(result)

	if database != nil && cfg.UserID != "" {
		recordRun(ctx, database, cfg, pg.url, job, result)
	}

	if req.Out == "" {
		return nil
	}
	html, err := pg.render()
	if err != nil {
		return fmt.Errorf("failed to read filled page: %w", err)
	}
	if req.Out == "-" {
		_, err = io.WriteString(stdout, html)
		return err
	}
	if err := os.WriteFile(req.Out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", req.Out, err)
	}
	return nil
}

// prepareInference waits for the model so the run can use it. A model that
// cannot be prepared leaves open questions unanswered.
func prepareInference(ctx context.Context, cfg config.Config) *llm.ClientInference {
	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(cfg.Model)
	}
	inference := llm.NewGeminiInference(llmConfig, cfg.APIKey, cfg.Verbose)
	if err := inference.Prepare(ctx); err != nil {
		log.Printf("[AUTOFILL] Model unavailable, open questions will be left empty: %v", err)
	}
	return inference
}

func recordRun(ctx context.Context, database *db.DB, cfg config.Config, pageURL string, job types.JobContext, result *types.FillResult) {
	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return
	}
	run := &db.FillRun{
		UserID:     &userID,
		PageURL:    pageURL,
		JobTitle:   job.Title,
		Company:    job.Company,
		Filled:     result.Filled,
		AIAnswered: result.AIAnswered,
	}
	if _, err := database.RecordFillRun(ctx, run); err != nil {
		log.Printf("[AUTOFILL] Failed to record fill run: %v", err)
	}
}
