package filling

import (
	"testing"
	"time"

	"github.com/jonathan/form-autofill/internal/types"
	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func fullProfile() *types.UserProfile {
	return &types.UserProfile{
		FirstName:         "Ada",
		LastName:          "Lovelace",
		Email:             "ada@example.com",
		Phone:             "+1 555 0100",
		Address:           "12 Analytical Way",
		City:              "London",
		State:             "Greater London",
		Zip:               "N1 9GU",
		LinkedIn:          "https://linkedin.com/in/ada",
		GitHub:            "https://github.com/ada",
		Portfolio:         "https://ada.dev",
		Education:         "Master's",
		SalaryExpectation: "150000",
		YearsExperience:   7,
		Skills:            []string{"Go", "Postgres"},
		EmploymentHistory: []types.EmploymentEntry{
			{JobTitle: "Staff Engineer", Company: "Engines Ltd", StartDate: "2020-01"},
		},
		NeedsSponsorship:  false,
		WillingToRelocate: true,
	}
}

func TestResolveValue_DirectMappings(t *testing.T) {
	p := fullProfile()

	tests := []struct {
		semantic types.SemanticType
		want     string
	}{
		{types.FirstName, "Ada"},
		{types.LastName, "Lovelace"},
		{types.FullName, "Ada Lovelace"},
		{types.Email, "ada@example.com"},
		{types.Phone, "+1 555 0100"},
		{types.Address, "12 Analytical Way"},
		{types.City, "London"},
		{types.State, "Greater London"},
		{types.Zip, "N1 9GU"},
		{types.LinkedIn, "https://linkedin.com/in/ada"},
		{types.GitHub, "https://github.com/ada"},
		{types.Portfolio, "https://ada.dev"},
		{types.Education, "Master's"},
		{types.SalaryExpectation, "150000"},
		{types.YearsExperience, "7"},
		{types.CurrentTitle, "Staff Engineer"},
		{types.CurrentCompany, "Engines Ltd"},
		{types.Sponsorship, "no"},
		{types.Relocation, "yes"},
	}

	for _, tt := range tests {
		t.Run(string(tt.semantic), func(t *testing.T) {
			got, ok := ResolveValueAt(tt.semantic, p, fixedNow)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveValue_NoValueTypes(t *testing.T) {
	p := fullProfile()
	for _, st := range []types.SemanticType{types.CheckboxUnknown, types.CustomQuestion, types.SemanticType("favouriteColour")} {
		_, ok := ResolveValueAt(st, p, fixedNow)
		assert.False(t, ok, "%s should have no value", st)
	}

	_, ok := ResolveValue(types.Email, nil)
	assert.False(t, ok)
}

func TestResolveValue_CurrentEntryTakesPrecedence(t *testing.T) {
	p := &types.UserProfile{
		EmploymentHistory: []types.EmploymentEntry{
			{JobTitle: "Senior Engineer", Company: "First Co", StartDate: "2018-01", EndDate: "2021-01"},
			{JobTitle: "Principal Engineer", Company: "Second Co", StartDate: "2021-02", IsCurrent: true},
		},
	}

	title, ok := ResolveValueAt(types.CurrentTitle, p, fixedNow)
	assert.True(t, ok)
	assert.Equal(t, "Principal Engineer", title)

	company, ok := ResolveValueAt(types.CurrentCompany, p, fixedNow)
	assert.True(t, ok)
	assert.Equal(t, "Second Co", company)
}

func TestResolveValue_FirstEntryWithoutCurrent(t *testing.T) {
	p := &types.UserProfile{
		EmploymentHistory: []types.EmploymentEntry{
			{JobTitle: "Listed First", Company: "A"},
			{JobTitle: "Listed Second", Company: "B"},
		},
	}

	title, ok := ResolveValueAt(types.CurrentTitle, p, fixedNow)
	assert.True(t, ok)
	assert.Equal(t, "Listed First", title)
}

func TestResolveValue_EmptyProfileHasNoProfessionalValues(t *testing.T) {
	p := &types.UserProfile{Skills: []string{}}
	professional := []types.SemanticType{
		types.CurrentTitle, types.CurrentCompany, types.YearsExperience, types.Education, types.SalaryExpectation,
	}
	for _, st := range professional {
		_, ok := ResolveValueAt(st, p, fixedNow)
		assert.False(t, ok, "%s should have no value", st)
	}
}

func TestResolveValue_YearsDerivedFromHistory(t *testing.T) {
	p := &types.UserProfile{
		EmploymentHistory: []types.EmploymentEntry{
			{JobTitle: "Engineer", Company: "Now", StartDate: "2023-06", IsCurrent: true},
			{JobTitle: "Engineer", Company: "Before", StartDate: "2019-06", EndDate: "2023-06"},
		},
	}

	years, ok := ResolveValueAt(types.YearsExperience, p, fixedNow)
	assert.True(t, ok)
	assert.Equal(t, "7", years)
}
