package filling

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jonathan/form-autofill/internal/dom"
	"github.com/jonathan/form-autofill/internal/scanning"
	"github.com/jonathan/form-autofill/internal/types"
)

// Filler writes resolved values into field elements, one strategy per element kind.
type Filler struct {
	Bridge  ControlledInputBridge
	Verbose bool
}

// NewFiller creates a Filler.
func NewFiller(verbose bool) *Filler {
	return &Filler{Verbose: verbose}
}

// Fill writes value into the field and reports whether it succeeded.
// Failures, including panics from the document host, are logged and reported as false.
func (f *Filler) Fill(field types.FieldInfo, value string) bool {
	if err := f.fill(field, value); err != nil {
		if f.Verbose {
			log.Printf("[FILL] %v", err)
		}
		return false
	}
	return true
}

func (f *Filler) fill(field types.FieldInfo, value string) (err error) {
	name := fieldName(field)
	defer func() {
		if r := recover(); r != nil {
			err = &FillError{Field: name, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	el := field.Element
	if el == nil {
		return &FillError{Field: name, Message: "no element"}
	}
	if !el.Connected() {
		return &FillError{Field: name, Message: "element is stale", Cause: dom.ErrDetached}
	}

	switch field.Kind {
	case types.KindText, types.KindTextArea:
		err = f.FillText(el, value)
	case types.KindSelect:
		err = FillSelect(el, value)
	case types.KindCheckbox:
		err = FillCheckbox(el, value)
	case types.KindRadio:
		err = FillRadio(el, value)
	default:
		return &FillError{Field: name, Message: fmt.Sprintf("unsupported element kind %q", field.Kind)}
	}
	if err != nil {
		return &FillError{Field: name, Message: "write failed", Cause: err}
	}
	return nil
}

// FillText writes free text through the controlled-input bridge, then commits it.
func (f *Filler) FillText(el dom.Element, value string) error {
	if err := f.Bridge.Write(el, value); err != nil {
		return err
	}
	return dispatchSettle(el)
}

// FillSelect picks the option matching value and commits the selection.
func FillSelect(el dom.Element, value string) error {
	idx, ok := MatchOption(el.Options(), value)
	if !ok {
		return fmt.Errorf("no option matches %q", value)
	}
	if err := el.SelectOption(idx); err != nil {
		return err
	}
	return simulateEvents(el)
}

// MatchOption returns the index of the option that best matches value.
// Tiers are tried in order: exact value or text, case-insensitive containment
// in either direction, then numeric equality against numeric option values.
func MatchOption(opts []dom.Option, value string) (int, bool) {
	if value == "" {
		return 0, false
	}

	for i, o := range opts {
		if o.Value == value || o.Text == value {
			return i, true
		}
	}

	target := strings.ToLower(value)
	for i, o := range opts {
		if containsEither(strings.ToLower(o.Text), target) || containsEither(strings.ToLower(o.Value), target) {
			return i, true
		}
	}

	if n, ok := canonicalNumber(value); ok {
		for i, o := range opts {
			if v, ok := canonicalNumber(o.Value); ok && v == n {
				return i, true
			}
		}
	}
	return 0, false
}

func containsEither(option, target string) bool {
	if option == "" {
		return false
	}
	return strings.Contains(option, target) || strings.Contains(target, option)
}

func canonicalNumber(s string) (string, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

// Truthy reports whether a value checks a checkbox.
func Truthy(value string) bool {
	return value == "yes" || value == "true"
}

// FillCheckbox sets the checked state from value and commits it.
func FillCheckbox(el dom.Element, value string) error {
	if err := el.SetChecked(Truthy(value)); err != nil {
		return err
	}
	return simulateEvents(el)
}

// FillRadio checks the radio of el's group whose label or value matches value.
// When nothing matches no element of the group is touched.
func FillRadio(el dom.Element, value string) error {
	doc := el.Document()
	group, err := radioGroup(doc, el)
	if err != nil {
		return err
	}

	target := strings.TrimSpace(value)
	for _, r := range group {
		label := scanning.ResolveLabel(doc, r)
		if strings.EqualFold(strings.TrimSpace(label), target) || strings.EqualFold(r.Attr("value"), target) {
			if err := r.SetChecked(true); err != nil {
				return err
			}
			return simulateEvents(r)
		}
	}
	return fmt.Errorf("no radio in group %q matches %q", el.Attr("name"), value)
}

func radioGroup(doc dom.Document, el dom.Element) ([]dom.Element, error) {
	name := el.Attr("name")
	if name == "" || doc == nil {
		return []dom.Element{el}, nil
	}
	radios, err := doc.QueryAll(`input[type="radio"]`)
	if err != nil {
		return nil, err
	}
	group := make([]dom.Element, 0, len(radios))
	for _, r := range radios {
		if r.Attr("name") == name {
			group = append(group, r)
		}
	}
	return group, nil
}

func fieldName(field types.FieldInfo) string {
	switch {
	case field.Label != "":
		return strconv.Quote(field.Label)
	case field.Name != "":
		return field.Name
	case field.ID != "":
		return "#" + field.ID
	default:
		return string(field.Kind)
	}
}
