// Package answering answers open-ended application questions with a language model.
package answering

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonathan/form-autofill/internal/llm"
	"github.com/jonathan/form-autofill/internal/types"
)

// DefaultTimeout bounds session creation plus the prompt call for one question.
const DefaultTimeout = 30 * time.Second

// Pipeline answers one deferred question at a time.
// It never returns an error: every failure is logged and yields no answer.
type Pipeline struct {
	Inference llm.Inference
	Timeout   time.Duration
	Verbose   bool
	Now       func() time.Time
}

// NewPipeline creates a Pipeline over inference. A non-positive timeout uses DefaultTimeout.
func NewPipeline(inference llm.Inference, timeout time.Duration, verbose bool) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pipeline{
		Inference: inference,
		Timeout:   timeout,
		Verbose:   verbose,
		Now:       time.Now,
	}
}

// Answer returns the model's answer to question. ok is false when the model
// is unavailable, still being prepared, failed, or produced an empty answer.
func (p *Pipeline) Answer(ctx context.Context, question string, job types.JobContext, profile *types.UserProfile) (answer string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logf("Recovered while answering %q: %v", question, r)
			answer, ok = "", false
		}
	}()

	answer, err := p.answer(ctx, question, job, profile)
	if err != nil {
		p.logf("No answer for %q: %v", question, err)
		return "", false
	}
	if answer == "" {
		return "", false
	}
	return answer, true
}

func (p *Pipeline) answer(ctx context.Context, question string, job types.JobContext, profile *types.UserProfile) (string, error) {
	if p.Inference == nil {
		return "", &AnswerError{Stage: "availability", Message: "no inference service configured"}
	}

	state, err := p.Inference.Availability(ctx)
	if err != nil {
		return "", &AnswerError{Stage: "availability", Message: "availability check failed", Cause: err}
	}

	switch state {
	case llm.AvailabilityReady:
	case llm.AvailabilityNeedsDownload:
		if err := p.Inference.Download(ctx); err != nil {
			return "", &AnswerError{Stage: "download", Message: "failed to start model download", Cause: err}
		}
		p.logf("Model download started; skipping %q for this fill", question)
		return "", nil
	default:
		p.logf("Model unavailable (%s); skipping %q", state, question)
		return "", nil
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	prompt, err := BuildPrompt(question, job, profile, now())
	if err != nil {
		return "", err
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	session, err := p.Inference.CreateSession(ctx)
	if err != nil {
		return "", &AnswerError{Stage: "session", Message: "failed to create session", Cause: err}
	}
	if session == nil {
		return "", &AnswerError{Stage: "session", Message: "inference returned no session"}
	}
	defer session.Destroy()

	p.logf("Asking model: %q", question)
	raw, err := session.Prompt(ctx, prompt)
	if err != nil {
		return "", &AnswerError{Stage: "prompt", Message: "prompt failed", Cause: err}
	}

	answer := strings.TrimSpace(raw)
	p.logf("Answered %q (%d chars)", question, len(answer))
	return answer, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Verbose {
		log.Printf("[ANSWER] %s", fmt.Sprintf(format, args...))
	}
}
