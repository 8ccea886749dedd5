// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/form-autofill/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 40
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFields outputs one line per scanned field: kind, semantic type, required marker and label.
func (p *Printer) PrintFields(fields []types.FieldInfo) {
	var sb strings.Builder

	if len(fields) == 0 {
		sb.WriteString("No fillable fields found")
	}

	count := min(len(fields), maxItemsToShow)
	for i := 0; i < count; i++ {
		f := fields[i]
		semantic := "-"
		if f.SemanticType != nil {
			semantic = string(*f.SemanticType)
		}
		required := " "
		if f.Required {
			required = "*"
		}
		label := f.Label
		if label == "" {
			label = f.Name
		}
		sb.WriteString(fmt.Sprintf("%2d. %-8s %-16s %s %s", i+1, f.Kind, semantic, required, label))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(fields) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(fields)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("SCANNED FIELDS (%d)", len(fields)), sb.String())
}

// PrintJobContext outputs the job title and company used for open questions.
func (p *Printer) PrintJobContext(job types.JobContext) {
	or := func(s string) string {
		if s == "" {
			return "(unknown)"
		}
		return s
	}
	p.printBox("JOB CONTEXT", fmt.Sprintf("Title:    %s\nCompany:  %s", or(job.Title), or(job.Company)))
}

// PrintFillResult outputs the completion summary of a fill.
func (p *Printer) PrintFillResult(result *types.FillResult) {
	if result == nil {
		return
	}
	p.printBox("AUTOFILL COMPLETE", fmt.Sprintf(
		"Fields filled:       %d\nQuestions answered:  %d", result.Filled, result.AIAnswered))
}
