// Package dom defines the narrow document surface the autofill core runs against,
// and an in-memory HTML implementation of it.
package dom

import (
	"errors"
	"strings"
)

// ErrDetached is returned by writes against an element that is no longer in its document.
var ErrDetached = errors.New("element is detached from the document")

// Event is a DOM event to dispatch on an element.
type Event struct {
	Type    string
	Bubbles bool
}

// Option is one <option> of a select element.
type Option struct {
	Value    string
	Text     string
	Selected bool
}

// Document is the query side of a page.
type Document interface {
	// QueryAll returns every element matching selector in document order.
	QueryAll(selector string) ([]Element, error)
	// Query returns the first element matching selector, or nil when there is none.
	Query(selector string) (Element, error)
}

// Element is one node of a Document.
// Traversal methods return nil when nothing matches.
type Element interface {
	Tag() string
	Attr(name string) string
	HasAttr(name string) bool
	Text() string
	Value() string
	Checked() bool
	Options() []Option
	Connected() bool

	Closest(selector string) Element
	PrevSibling() Element
	Find(selector string) Element
	Document() Document

	// SetValue assigns the value property the way page scripts do. Frameworks
	// that wrap the property see this write and may suppress the next input event.
	SetValue(v string) error
	// NativeSetValue writes through the platform's original value setter,
	// bypassing any instance-level interception.
	NativeSetValue(v string) error
	SetChecked(checked bool) error
	SelectOption(index int) error
	Dispatch(ev Event) error
}

// InputType returns the lower-cased type of an input element, defaulting to "text".
func InputType(el Element) string {
	t := strings.ToLower(strings.TrimSpace(el.Attr("type")))
	if t == "" {
		return "text"
	}
	return t
}

// CollapseSpace trims s and collapses internal runs of whitespace to one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
