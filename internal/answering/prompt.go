package answering

import (
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/form-autofill/internal/prompts"
	"github.com/jonathan/form-autofill/internal/types"
)

// BuildPrompt renders the answer prompt for one question.
// Missing job or candidate facts are rendered as the "unknown-value" prompt.
func BuildPrompt(question string, job types.JobContext, profile *types.UserProfile, now time.Time) (string, error) {
	template, err := prompts.Get(prompts.AutofillFile, prompts.KeyAnswerCustomQuestion)
	if err != nil {
		return "", &AnswerError{Stage: "prompt", Message: "failed to load template", Cause: err}
	}
	unknown, err := prompts.Get(prompts.AutofillFile, prompts.KeyUnknownValue)
	if err != nil {
		return "", &AnswerError{Stage: "prompt", Message: "failed to load template", Cause: err}
	}

	or := func(s string) string {
		if s = strings.TrimSpace(s); s == "" {
			return unknown
		}
		return s
	}

	var role, years, skills string
	if profile != nil {
		if entry, ok := profile.CurrentRole(); ok {
			role = describeRole(entry)
		}
		if n := profile.TotalYearsExperience(now); n > 0 {
			years = strconv.Itoa(n)
		}
		skills = strings.Join(profile.Skills, ", ")
	}

	return prompts.Format(template, map[string]string{
		"Question":        strings.TrimSpace(question),
		"JobTitle":        or(job.Title),
		"Company":         or(job.Company),
		"CandidateName":   or(profile.DisplayName()),
		"CurrentRole":     or(role),
		"YearsExperience": or(years),
		"Skills":          or(skills),
	}), nil
}

func describeRole(e types.EmploymentEntry) string {
	switch {
	case e.JobTitle != "" && e.Company != "":
		return e.JobTitle + " at " + e.Company
	case e.JobTitle != "":
		return e.JobTitle
	default:
		return e.Company
	}
}
