// Package types provides type definitions for structured data used throughout the form-autofill system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserProfile is the candidate data forms are filled from.
// The core reads it as an immutable snapshot for the duration of one fill.
type UserProfile struct {
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	FullName  string `json:"full_name,omitempty" validate:"omitempty,max=200"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`

	// EmploymentHistory is kept in the order the caller provided it; it is not sorted by date.
	EmploymentHistory []EmploymentEntry `json:"employment_history" validate:"dive"`
	YearsExperience   int               `json:"years_experience,omitempty" validate:"gte=0,lte=80"`
	Education         string            `json:"education,omitempty"`
	SalaryExpectation string            `json:"salary_expectation,omitempty"`
	Skills            []string          `json:"skills"`
	Certifications    []string          `json:"certifications,omitempty"`

	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub    string `json:"github,omitempty" validate:"omitempty,url"`
	Portfolio string `json:"portfolio,omitempty" validate:"omitempty,url"`

	NeedsSponsorship  bool `json:"needs_sponsorship"`
	WillingToRelocate bool `json:"willing_to_relocate"`
}

// EmploymentEntry is one position in the employment history.
// Dates use YYYY-MM or YYYY-MM-DD; an empty EndDate means open-ended.
type EmploymentEntry struct {
	ID          uuid.UUID `json:"id"`
	JobTitle    string    `json:"job_title" validate:"required"`
	Company     string    `json:"company" validate:"required"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	IsCurrent   bool      `json:"is_current"`
	Description string    `json:"description,omitempty"`
}

// Validate validates the UserProfile using the validator.
func (p *UserProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// CurrentRole returns the entry used for "current role" lookups: the first entry
// marked current, otherwise the first entry in the history. ok is false when the history is empty.
func (p *UserProfile) CurrentRole() (entry EmploymentEntry, ok bool) {
	if p == nil || len(p.EmploymentHistory) == 0 {
		return EmploymentEntry{}, false
	}
	for _, e := range p.EmploymentHistory {
		if e.IsCurrent {
			return e, true
		}
	}
	return p.EmploymentHistory[0], true
}

// DisplayName returns the explicit full name, or first and last name joined.
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FullName != "" {
		return p.FullName
	}
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

// TotalYearsExperience returns the explicit years of experience, or derives it
// from the employment history date ranges. Current entries run until now.
func (p *UserProfile) TotalYearsExperience(now time.Time) int {
	if p == nil {
		return 0
	}
	if p.YearsExperience > 0 {
		return p.YearsExperience
	}

	var months int
	for _, e := range p.EmploymentHistory {
		start, ok := parseMonth(e.StartDate)
		if !ok {
			continue
		}
		end := now
		if !e.IsCurrent {
			if parsed, ok := parseMonth(e.EndDate); ok {
				end = parsed
			}
		}
		if d := monthsBetween(start, end); d > 0 {
			months += d
		}
	}
	return months / 12
}

func parseMonth(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func monthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}
