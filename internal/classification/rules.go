// Package classification maps the weak textual signals of a form field to a semantic type.
package classification

import (
	"slices"
	"strings"
	"unicode"

	"github.com/jonathan/form-autofill/internal/types"
)

// Rule maps a keyword set to a semantic type. A rule matches when any keyword
// occurs in the input, or any token equals one of Tokens, and no exclude term occurs.
type Rule struct {
	Type     types.SemanticType
	Keywords []string
	// Tokens must match a whole word. Abbreviations like "lname" live here
	// because they also occur inside longer words ("fullname").
	Tokens  []string
	Exclude []string
}

// Matches reports whether the rule applies to the lower-cased input text.
func (r Rule) Matches(text string) bool {
	for _, ex := range r.Exclude {
		if strings.Contains(text, ex) {
			return false
		}
	}
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	if len(r.Tokens) == 0 {
		return false
	}
	for _, tok := range tokenize(text) {
		if slices.Contains(r.Tokens, tok) {
			return true
		}
	}
	return false
}

// tokenize splits text on everything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// questionMarkers appear in essay prompts that mention profile words ("why this company?").
var questionMarkers = []string{"?", "why ", "describe", "explain", "tell us"}

// promptWords make any free-text field an open question, whatever profile words its label mentions.
var promptWords = []string{"why ", "describe", "explain", "tell us", "how would", "how do you"}

// ChoiceRules classify checkbox and radio elements. Anything they miss is CheckboxUnknown.
var ChoiceRules = []Rule{
	{Type: types.Sponsorship, Keywords: []string{"sponsor", "visa"}},
	{Type: types.Relocation, Keywords: []string{"relocat"}},
}

// FieldRules classify text-like, textarea and select elements. Order is precedence:
// narrow rules sit above the broad ones that would otherwise swallow them.
var FieldRules = []Rule{
	{Type: types.Email, Keywords: []string{"email", "e-mail"}},
	{Type: types.Phone, Keywords: []string{"phone", "mobile"}},
	{Type: types.FirstName, Keywords: []string{"first name", "firstname", "first_name", "given name"}, Tokens: []string{"fname"}},
	{Type: types.LastName, Keywords: []string{"last name", "lastname", "last_name", "surname", "family name"}, Tokens: []string{"lname"}},
	{Type: types.LinkedIn, Keywords: []string{"linkedin"}},
	{Type: types.GitHub, Keywords: []string{"github"}},
	{Type: types.Portfolio, Keywords: []string{"portfolio", "website", "personal site", "personal url"}},
	{Type: types.SalaryExpectation, Keywords: []string{"salary", "compensation", "pay expectation"}},
	{Type: types.YearsExperience, Keywords: []string{"years of experience", "years experience", "years of professional", "yoe"}},
	{Type: types.CurrentCompany, Keywords: []string{"current company", "company name", "current employer", "employer", "company", "organization"}, Exclude: questionMarkers},
	{Type: types.CurrentTitle, Keywords: []string{"current title", "job title", "current role", "position title", "title"}, Exclude: questionMarkers},
	{Type: types.Education, Keywords: []string{"education", "degree", "university", "school"}, Exclude: questionMarkers},
	{Type: types.Address, Keywords: []string{"street", "address"}},
	{Type: types.City, Keywords: []string{"city", "town"}, Exclude: []string{"ethnicity", "citizen"}},
	{Type: types.State, Keywords: []string{"state", "province"}, Exclude: []string{"statement", "united states"}},
	{Type: types.Zip, Keywords: []string{"zip", "postal", "postcode"}},
	{Type: types.Sponsorship, Keywords: []string{"sponsor", "visa"}},
	{Type: types.Relocation, Keywords: []string{"relocat"}},
	// Checked last: "first name"/"last name" compounds must never land here.
	{Type: types.FullName, Keywords: []string{"full name", "fullname", "full_name", "your name", "name"}, Exclude: []string{"first", "last", "user"}},
}

// openEndedMarkers are the words that make an unmatched free-text field an open question.
var openEndedMarkers = []string{"?", "why", "describe", "explain", "tell us"}

// OpenEndedLabelLength is the label length above which an unmatched free-text field is an open question.
const OpenEndedLabelLength = 30
