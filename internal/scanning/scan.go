package scanning

import (
	"github.com/jonathan/form-autofill/internal/classification"
	"github.com/jonathan/form-autofill/internal/dom"
	"github.com/jonathan/form-autofill/internal/types"
)

// Scanner produces one FieldInfo per fillable element.
type Scanner struct {
	Classifier *classification.Classifier
}

// NewScanner creates a Scanner using the default classification rules.
func NewScanner() *Scanner {
	return &Scanner{Classifier: classification.Default()}
}

// Scan enumerates the fillable elements of doc in document order. It never mutates the document.
func (s *Scanner) Scan(doc dom.Document) ([]types.FieldInfo, error) {
	if doc == nil {
		return nil, &ScanError{Message: "document is nil"}
	}

	elements, err := doc.QueryAll(FieldSelector)
	if err != nil {
		return nil, &ScanError{Message: "failed to query fields", Cause: err}
	}

	classifier := s.Classifier
	if classifier == nil {
		classifier = classification.Default()
	}

	fields := make([]types.FieldInfo, 0, len(elements))
	for _, el := range elements {
		if !fillable(el) {
			continue
		}
		fields = append(fields, Describe(doc, el, classifier))
	}
	return fields, nil
}

// Describe builds the FieldInfo for a single element. A nil classifier uses the default rules.
func Describe(doc dom.Document, el dom.Element, classifier *classification.Classifier) types.FieldInfo {
	if classifier == nil {
		classifier = classification.Default()
	}
	label := ResolveLabel(doc, el)
	kind := KindOf(el)
	name := el.Attr("name")
	id := el.Attr("id")

	return types.FieldInfo{
		Element: el,
		Kind:    kind,
		Name:    name,
		ID:      id,
		SemanticType: classifier.Classify(classification.Input{
			Kind:  kind,
			Label: label,
			Name:  name,
			ID:    id,
		}),
		Label:    label,
		Required: IsRequired(el, label),
	}
}

// Scan enumerates fields with the default rules.
func Scan(doc dom.Document) ([]types.FieldInfo, error) {
	return NewScanner().Scan(doc)
}
