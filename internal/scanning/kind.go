package scanning

import (
	"github.com/jonathan/form-autofill/internal/dom"
	"github.com/jonathan/form-autofill/internal/types"
)

// FieldSelector matches every candidate element.
const FieldSelector = "input, textarea, select"

// skippedInputTypes are never enumerated.
var skippedInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"image":  true,
}

// inertInputTypes are enumerated but nothing can be typed into them.
var inertInputTypes = map[string]bool{
	"file":  true,
	"reset": true,
	"range": true,
	"color": true,
}

// KindOf returns the field kind of el.
func KindOf(el dom.Element) types.FieldKind {
	switch el.Tag() {
	case "textarea":
		return types.KindTextArea
	case "select":
		return types.KindSelect
	case "input":
		t := dom.InputType(el)
		switch {
		case t == "checkbox":
			return types.KindCheckbox
		case t == "radio":
			return types.KindRadio
		case inertInputTypes[t], skippedInputTypes[t]:
			return types.KindOther
		default:
			return types.KindText
		}
	default:
		return types.KindOther
	}
}

// fillable reports whether el is enumerated at all.
func fillable(el dom.Element) bool {
	if el.Tag() != "input" {
		return true
	}
	return !skippedInputTypes[dom.InputType(el)]
}
