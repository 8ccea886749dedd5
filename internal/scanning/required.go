package scanning

import (
	"strings"

	"github.com/jonathan/form-autofill/internal/dom"
)

// IsRequired reports whether a field is mandatory, from its attributes or its label.
func IsRequired(el dom.Element, label string) bool {
	if el.HasAttr("required") {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(el.Attr("aria-required")), "true") {
		return true
	}
	if strings.Contains(label, "*") {
		return true
	}
	return strings.Contains(strings.ToLower(label), "required")
}
