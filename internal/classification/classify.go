package classification

import (
	"strings"

	"github.com/jonathan/form-autofill/internal/types"
)

// Input is everything the classifier looks at for one field.
type Input struct {
	Kind  types.FieldKind
	Label string
	Name  string
	ID    string
}

// Text returns the lower-cased label, name and id the rules are matched against.
func (in Input) Text() string {
	return strings.ToLower(in.Label + " " + in.Name + " " + in.ID)
}

// Classifier evaluates ordered rule tables, first match wins.
type Classifier struct {
	Choice []Rule
	Fields []Rule
}

// Default returns a Classifier over the built-in rule tables.
func Default() *Classifier {
	return &Classifier{Choice: ChoiceRules, Fields: FieldRules}
}

// Classify returns the semantic type of a field, or nil when the signal is too weak.
// A nil Classifier uses the default rule tables.
func (c *Classifier) Classify(in Input) *types.SemanticType {
	if c == nil {
		c = Default()
	}
	text := in.Text()

	if in.Kind.Choice() {
		if t, ok := firstMatch(c.Choice, text); ok {
			return &t
		}
		t := types.CheckboxUnknown
		return &t
	}

	if in.Kind == types.KindOther {
		return nil
	}

	if in.Kind.FreeText() && IsPrompt(in.Kind, in.Label) {
		t := types.CustomQuestion
		return &t
	}

	if t, ok := firstMatch(c.Fields, text); ok {
		return &t
	}

	if in.Kind.FreeText() && IsOpenEnded(in.Label) {
		t := types.CustomQuestion
		return &t
	}
	return nil
}

// Classify classifies with the default rule tables.
func Classify(in Input) *types.SemanticType {
	return Default().Classify(in)
}

// IsOpenEnded reports whether a label reads like an open-ended prompt.
func IsOpenEnded(label string) bool {
	if len(label) > OpenEndedLabelLength {
		return true
	}
	lower := strings.ToLower(label)
	for _, m := range openEndedMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// IsPrompt reports whether a free-text label asks a question rather than naming a value.
// A question mark only counts on textareas: "What is your email?" is still an email box.
func IsPrompt(kind types.FieldKind, label string) bool {
	lower := strings.ToLower(label) + " "
	if kind == types.KindTextArea && strings.Contains(lower, "?") {
		return true
	}
	for _, w := range promptWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func firstMatch(rules []Rule, text string) (types.SemanticType, bool) {
	for _, r := range rules {
		if r.Matches(text) {
			return r.Type, true
		}
	}
	return "", false
}
