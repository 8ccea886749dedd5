package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/form-autofill/internal/jobcontext"
	"github.com/jonathan/form-autofill/internal/observability"
	"github.com/jonathan/form-autofill/internal/scanning"
	"github.com/jonathan/form-autofill/internal/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan <page>",
	Short: "List the fields of a form and how they are classified",
	Args:  cobra.ExactArgs(1),
	RunE:  runScanCmd,
}

var (
	scanPageURL    string
	scanJSON       bool
	scanUseBrowser bool
)

func init() {
	scanCmd.Flags().StringVar(&scanPageURL, "url", "", "Page URL for a saved HTML file, used to detect the job posting")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print fields as JSON")
	scanCmd.Flags().BoolVar(&scanUseBrowser, "use-browser", false, "Use headless browser for pages rendered client-side (requires Chrome)")
	rootCmd.AddCommand(scanCmd)
}

type scanOutput struct {
	Job    types.JobContext  `json:"job"`
	Fields []types.FieldInfo `json:"fields"`
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	pg, err := openPage(cmd.Context(), pageOptions{
		Source:     args[0],
		URL:        scanPageURL,
		UseBrowser: scanUseBrowser,
		Verbose:    rootVerbose,
	})
	if err != nil {
		return err
	}
	defer pg.close()

	fields, err := scanning.Scan(pg.doc)
	if err != nil {
		return err
	}
	job := jobcontext.NewExtractor(rootVerbose).Extract(pg.doc, pg.url)

	if scanJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(scanOutput{Job: job, Fields: fields}); err != nil {
			return fmt.Errorf("failed to encode fields: %w", err)
		}
		return nil
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintJobContext(job)
	printer.PrintFields(fields)
	return nil
}
