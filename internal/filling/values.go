// Package filling resolves profile values for classified fields and writes them into the document.
package filling

import (
	"strconv"
	"time"

	"github.com/jonathan/form-autofill/internal/types"
)

// ResolveValue returns the profile value for a semantic type. ok is false when
// the profile has nothing for it; callers must not write anything in that case.
func ResolveValue(t types.SemanticType, p *types.UserProfile) (value string, ok bool) {
	return ResolveValueAt(t, p, time.Now())
}

// ResolveValueAt is ResolveValue with an explicit clock for experience derivation.
func ResolveValueAt(t types.SemanticType, p *types.UserProfile, now time.Time) (string, bool) {
	if p == nil {
		return "", false
	}

	var v string
	switch t {
	case types.FirstName:
		v = p.FirstName
	case types.LastName:
		v = p.LastName
	case types.FullName:
		v = p.DisplayName()
	case types.Email:
		v = p.Email
	case types.Phone:
		v = p.Phone
	case types.Address:
		v = p.Address
	case types.City:
		v = p.City
	case types.State:
		v = p.State
	case types.Zip:
		v = p.Zip
	case types.LinkedIn:
		v = p.LinkedIn
	case types.GitHub:
		v = p.GitHub
	case types.Portfolio:
		v = p.Portfolio
	case types.CurrentTitle:
		if role, ok := p.CurrentRole(); ok {
			v = role.JobTitle
		}
	case types.CurrentCompany:
		if role, ok := p.CurrentRole(); ok {
			v = role.Company
		}
	case types.YearsExperience:
		if years := p.TotalYearsExperience(now); years > 0 {
			v = strconv.Itoa(years)
		}
	case types.Education:
		v = p.Education
	case types.SalaryExpectation:
		v = p.SalaryExpectation
	case types.Sponsorship:
		v = yesNo(p.NeedsSponsorship)
	case types.Relocation:
		v = yesNo(p.WillingToRelocate)
	default:
		// checkbox-unknown, customQuestion and anything unrecognised have no profile value.
		return "", false
	}

	if v == "" {
		return "", false
	}
	return v, true
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
