// Package types provides type definitions for structured data used throughout the form-autofill system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/jonathan/form-autofill/internal/dom"

// SemanticType is the inferred meaning of a form field, independent of its element kind.
type SemanticType string

// Identity
const (
	FirstName SemanticType = "firstName"
	LastName  SemanticType = "lastName"
	FullName  SemanticType = "fullName"
	Email     SemanticType = "email"
	Phone     SemanticType = "phone"
)

// Location
const (
	Address SemanticType = "address"
	City    SemanticType = "city"
	State   SemanticType = "state"
	Zip     SemanticType = "zip"
)

// Professional
const (
	CurrentTitle      SemanticType = "currentTitle"
	CurrentCompany    SemanticType = "currentCompany"
	YearsExperience   SemanticType = "yearsExperience"
	Education         SemanticType = "education"
	SalaryExpectation SemanticType = "salaryExpectation"
)

// Links
const (
	LinkedIn  SemanticType = "linkedin"
	GitHub    SemanticType = "github"
	Portfolio SemanticType = "portfolio"
)

// Preferences and reserved types
const (
	Sponsorship     SemanticType = "sponsorship"
	Relocation      SemanticType = "relocation"
	CheckboxUnknown SemanticType = "checkbox-unknown"
	// CustomQuestion marks a free-text prompt that is answered by the AI pass instead of the profile.
	CustomQuestion SemanticType = "customQuestion"
)

// AllSemanticTypes lists every member of the taxonomy in declaration order.
var AllSemanticTypes = []SemanticType{
	FirstName, LastName, FullName, Email, Phone,
	Address, City, State, Zip,
	CurrentTitle, CurrentCompany, YearsExperience, Education, SalaryExpectation,
	LinkedIn, GitHub, Portfolio,
	Sponsorship, Relocation,
	CheckboxUnknown, CustomQuestion,
}

// FieldKind is the element kind of a fillable field.
type FieldKind string

// Field kinds
const (
	KindText     FieldKind = "text"
	KindTextArea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindRadio    FieldKind = "radio"
	KindOther    FieldKind = "other"
)

// FreeText reports whether free text can be typed into the kind.
func (k FieldKind) FreeText() bool {
	return k == KindText || k == KindTextArea
}

// Choice reports whether the kind is a checkbox or radio button.
func (k FieldKind) Choice() bool {
	return k == KindCheckbox || k == KindRadio
}

// FieldInfo describes one fillable element found during a scan.
// A nil SemanticType means the field is skipped.
type FieldInfo struct {
	Element      dom.Element   `json:"-"`
	Kind         FieldKind     `json:"kind"`
	Name         string        `json:"name,omitempty"`
	ID           string        `json:"id,omitempty"`
	SemanticType *SemanticType `json:"semantic_type"`
	Label        string        `json:"label"`
	Required     bool          `json:"required"`
}

// TypeIs reports whether the field was classified as t.
func (f FieldInfo) TypeIs(t SemanticType) bool {
	return f.SemanticType != nil && *f.SemanticType == t
}

// JobContext is the job posting a form belongs to.
type JobContext struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}

// FillResult is the outcome of one orchestration run.
type FillResult struct {
	Filled     int `json:"filled"`
	AIAnswered int `json:"ai_answered"`
}
