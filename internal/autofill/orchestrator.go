// Package autofill runs the two-pass fill over a document: profile values first,
// then model answers for open-ended questions.
package autofill

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/form-autofill/internal/dom"
	"github.com/jonathan/form-autofill/internal/filling"
	"github.com/jonathan/form-autofill/internal/jobcontext"
	"github.com/jonathan/form-autofill/internal/profile"
	"github.com/jonathan/form-autofill/internal/scanning"
	"github.com/jonathan/form-autofill/internal/types"
)

// Answerer answers one open-ended question. ok is false when there is no answer.
type Answerer interface {
	Answer(ctx context.Context, question string, job types.JobContext, p *types.UserProfile) (answer string, ok bool)
}

// Orchestrator fills every field it can classify in a document.
type Orchestrator struct {
	Profiles profile.Source
	Scanner  *scanning.Scanner
	Filler   *filling.Filler
	// Answerer and Jobs may be nil; without an Answerer open questions are left empty.
	Answerer Answerer
	Jobs     jobcontext.Source
	Verbose  bool
	Now      func() time.Time
}

// New creates an Orchestrator with the default scanner and filler.
func New(profiles profile.Source, answerer Answerer, jobs jobcontext.Source, verbose bool) *Orchestrator {
	return &Orchestrator{
		Profiles: profiles,
		Scanner:  scanning.NewScanner(),
		Filler:   filling.NewFiller(verbose),
		Answerer: answerer,
		Jobs:     jobs,
		Verbose:  verbose,
		Now:      time.Now,
	}
}

// Run fills doc. Only failing to load the profile or to scan the document is an
// error; individual fields and questions that fail are left as they were.
// pageURL is used to find the job context for open questions.
func (o *Orchestrator) Run(ctx context.Context, doc dom.Document, pageURL string) (*types.FillResult, error) {
	if o.Profiles == nil {
		return nil, fmt.Errorf("no profile source configured")
	}
	p, err := o.Profiles.LoadProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	scanner := o.Scanner
	if scanner == nil {
		scanner = scanning.NewScanner()
	}
	fields, err := scanner.Scan(doc)
	if err != nil {
		return nil, err
	}

	plan := NewPlan(fields)
	o.logf("Scanned %d fields: %d immediate, %d deferred, %d skipped",
		len(fields), len(plan.Immediate), len(plan.Deferred), plan.Skipped)

	result := &types.FillResult{}
	result.Filled = o.fillFromProfile(plan.Immediate, p)

	if len(plan.Deferred) > 0 {
		result.AIAnswered = o.answerQuestions(ctx, doc, pageURL, plan.Deferred, p)
	}

	o.logf("Filled %d fields, answered %d questions", result.Filled, result.AIAnswered)
	return result, nil
}

func (o *Orchestrator) filler() *filling.Filler {
	if o.Filler == nil {
		o.Filler = filling.NewFiller(o.Verbose)
	}
	return o.Filler
}

func (o *Orchestrator) fillFromProfile(fields []types.FieldInfo, p *types.UserProfile) int {
	now := time.Now()
	if o.Now != nil {
		now = o.Now()
	}

	filled := 0
	for _, f := range fields {
		value, ok := filling.ResolveValueAt(*f.SemanticType, p, now)
		if !ok {
			continue
		}
		if o.filler().Fill(f, value) {
			filled++
		}
	}
	return filled
}

// answerQuestions asks one question at a time so document writes stay in
// field order and the model serves a single request at once.
func (o *Orchestrator) answerQuestions(ctx context.Context, doc dom.Document, pageURL string, fields []types.FieldInfo, p *types.UserProfile) int {
	if o.Answerer == nil {
		o.logf("No answerer configured; leaving %d questions empty", len(fields))
		return 0
	}

	var job types.JobContext
	if o.Jobs != nil {
		job = o.Jobs.Extract(doc, pageURL)
	}

	answered := 0
	for _, f := range fields {
		question := f.Label
		if question == "" {
			question = f.Name
		}
		answer, ok := o.Answerer.Answer(ctx, question, job, p)
		if !ok {
			continue
		}
		if o.filler().Fill(f, answer) {
			answered++
		}
	}
	return answered
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Verbose {
		log.Printf("[AUTOFILL] %s", fmt.Sprintf(format, args...))
	}
}
