// Package scanning enumerates the fillable fields of a document and describes each one.
package scanning

import (
	"strings"

	"github.com/jonathan/form-autofill/internal/dom"
)

// labelStrategy returns a candidate label for el, or "" when it does not apply.
type labelStrategy func(doc dom.Document, el dom.Element) string

// labelStrategies run in order; the first non-empty result wins.
var labelStrategies = []labelStrategy{
	labelByFor,
	labelByAncestor,
	labelByPrecedingSibling,
	labelInContainer,
	labelByAria,
	labelByPlaceholder,
}

// ResolveLabel returns the best available human-readable label for el.
func ResolveLabel(doc dom.Document, el dom.Element) string {
	for _, strategy := range labelStrategies {
		if label := strategy(doc, el); label != "" {
			return label
		}
	}
	return ""
}

func labelByFor(doc dom.Document, el dom.Element) string {
	id := el.Attr("id")
	if id == "" || doc == nil {
		return ""
	}
	labels, err := doc.QueryAll("label[for]")
	if err != nil {
		return ""
	}
	for _, l := range labels {
		if l.Attr("for") == id {
			return l.Text()
		}
	}
	return ""
}

func labelByAncestor(_ dom.Document, el dom.Element) string {
	if l := el.Closest("label"); l != nil {
		return l.Text()
	}
	return ""
}

func labelByPrecedingSibling(_ dom.Document, el dom.Element) string {
	if prev := el.PrevSibling(); prev != nil && prev.Tag() == "label" {
		return prev.Text()
	}
	return ""
}

func labelInContainer(_ dom.Document, el dom.Element) string {
	container := el.Closest("div, fieldset, li")
	if container == nil {
		return ""
	}
	if l := container.Find("label, legend"); l != nil {
		return l.Text()
	}
	return ""
}

func labelByAria(_ dom.Document, el dom.Element) string {
	return strings.TrimSpace(el.Attr("aria-label"))
}

func labelByPlaceholder(_ dom.Document, el dom.Element) string {
	return strings.TrimSpace(el.Attr("placeholder"))
}
