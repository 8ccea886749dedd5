package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// DispatchedEvent is one bubbling event recorded by an HTMLDocument.
type DispatchedEvent struct {
	Target Element
	Event  Event
}

// Change is a value change observed by a controlled-input framework.
type Change struct {
	Target Element
	Value  string
}

// HTMLDocument is an in-memory Document parsed from HTML.
// Writes are reflected into the node tree, so Render returns the filled markup.
type HTMLDocument struct {
	doc      *goquery.Document
	trackers map[*html.Node]string
	events   []DispatchedEvent
	changes  []Change
}

// ParseHTML parses an HTML document.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &HTMLDocument{doc: doc, trackers: make(map[*html.Node]string)}, nil
}

// ParseHTMLString parses an HTML document held in a string.
func ParseHTMLString(s string) (*HTMLDocument, error) {
	return ParseHTML(strings.NewReader(s))
}

// QueryAll returns every element matching selector in document order.
func (d *HTMLDocument) QueryAll(selector string) ([]Element, error) {
	if _, err := cascadia.ParseGroup(selector); err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	sel := d.doc.Find(selector)
	out := make([]Element, 0, sel.Length())
	for _, n := range sel.Nodes {
		out = append(out, d.wrap(n))
	}
	return out, nil
}

// Query returns the first element matching selector, or nil.
func (d *HTMLDocument) Query(selector string) (Element, error) {
	all, err := d.QueryAll(selector)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

// Render serializes the current state of the document.
func (d *HTMLDocument) Render() (string, error) {
	var buf bytes.Buffer
	for _, n := range d.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("failed to render HTML: %w", err)
		}
	}
	return buf.String(), nil
}

// Control marks el as owned by a controlled-input framework. The framework
// tracks the last value it saw; an input event only counts as a change when
// the element value differs from that tracked value.
func (d *HTMLDocument) Control(el Element) error {
	e, ok := el.(*htmlElement)
	if !ok || e.doc != d {
		return fmt.Errorf("element does not belong to this document")
	}
	d.trackers[e.node] = e.Value()
	return nil
}

// Remove detaches el from the document.
func (d *HTMLDocument) Remove(el Element) {
	if e, ok := el.(*htmlElement); ok && e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Events returns the bubbling events dispatched so far.
func (d *HTMLDocument) Events() []DispatchedEvent {
	return append([]DispatchedEvent(nil), d.events...)
}

// Changes returns the value changes observed by controlled-input frameworks.
func (d *HTMLDocument) Changes() []Change {
	return append([]Change(nil), d.changes...)
}

func (d *HTMLDocument) wrap(n *html.Node) Element {
	if n == nil {
		return nil
	}
	return &htmlElement{doc: d, node: n}
}

func (d *HTMLDocument) root() *html.Node {
	if len(d.doc.Nodes) == 0 {
		return nil
	}
	return d.doc.Nodes[0]
}

// htmlElement is an Element backed by a node of an HTMLDocument.
type htmlElement struct {
	doc  *HTMLDocument
	node *html.Node
}

func (e *htmlElement) selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(e.node).Selection
}

func (e *htmlElement) Tag() string {
	return strings.ToLower(e.node.Data)
}

func (e *htmlElement) Attr(name string) string {
	v, _ := getAttr(e.node, name)
	return v
}

func (e *htmlElement) HasAttr(name string) bool {
	_, ok := getAttr(e.node, name)
	return ok
}

func (e *htmlElement) Text() string {
	return CollapseSpace(e.selection().Text())
}

func (e *htmlElement) Value() string {
	switch e.Tag() {
	case "textarea":
		return e.selection().Text()
	case "select":
		opts := e.Options()
		for _, o := range opts {
			if o.Selected {
				return o.Value
			}
		}
		if len(opts) > 0 {
			return opts[0].Value
		}
		return ""
	default:
		return e.Attr("value")
	}
}

func (e *htmlElement) Checked() bool {
	return e.HasAttr("checked")
}

func (e *htmlElement) Options() []Option {
	if e.Tag() != "select" {
		return nil
	}
	var opts []Option
	for _, n := range e.optionNodes() {
		text := CollapseSpace(goquery.NewDocumentFromNode(n).Text())
		value, ok := getAttr(n, "value")
		if !ok {
			value = text
		}
		_, selected := getAttr(n, "selected")
		opts = append(opts, Option{Value: value, Text: text, Selected: selected})
	}
	return opts
}

func (e *htmlElement) optionNodes() []*html.Node {
	return e.selection().Find("option").Nodes
}

func (e *htmlElement) Connected() bool {
	root := e.doc.root()
	for n := e.node; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

func (e *htmlElement) Closest(selector string) Element {
	s := e.selection().Closest(selector)
	if s.Length() == 0 {
		return nil
	}
	return e.doc.wrap(s.Nodes[0])
}

func (e *htmlElement) PrevSibling() Element {
	for n := e.node.PrevSibling; n != nil; n = n.PrevSibling {
		if n.Type == html.ElementNode {
			return e.doc.wrap(n)
		}
	}
	return nil
}

func (e *htmlElement) Find(selector string) Element {
	s := e.selection().Find(selector)
	if s.Length() == 0 {
		return nil
	}
	return e.doc.wrap(s.Nodes[0])
}

func (e *htmlElement) Document() Document {
	return e.doc
}

func (e *htmlElement) SetValue(v string) error {
	if err := e.NativeSetValue(v); err != nil {
		return err
	}
	if _, controlled := e.doc.trackers[e.node]; controlled {
		e.doc.trackers[e.node] = v
	}
	return nil
}

func (e *htmlElement) NativeSetValue(v string) error {
	if !e.Connected() {
		return ErrDetached
	}
	switch e.Tag() {
	case "textarea":
		for c := e.node.FirstChild; c != nil; {
			next := c.NextSibling
			e.node.RemoveChild(c)
			c = next
		}
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: v})
	case "select":
		for i, o := range e.Options() {
			if o.Value == v {
				return e.SelectOption(i)
			}
		}
		return fmt.Errorf("no option with value %q", v)
	default:
		setAttr(e.node, "value", v)
	}
	return nil
}

func (e *htmlElement) SetChecked(checked bool) error {
	if !e.Connected() {
		return ErrDetached
	}
	if !checked {
		removeAttr(e.node, "checked")
		return nil
	}
	if InputType(e) == "radio" {
		if name := e.Attr("name"); name != "" {
			for _, n := range e.doc.doc.Find(`input[type="radio"]`).Nodes {
				if v, _ := getAttr(n, "name"); v == name && n != e.node {
					removeAttr(n, "checked")
				}
			}
		}
	}
	setAttr(e.node, "checked", "")
	return nil
}

func (e *htmlElement) SelectOption(index int) error {
	if !e.Connected() {
		return ErrDetached
	}
	nodes := e.optionNodes()
	if index < 0 || index >= len(nodes) {
		return fmt.Errorf("option index %d out of range", index)
	}
	for i, n := range nodes {
		if i == index {
			setAttr(n, "selected", "")
		} else {
			removeAttr(n, "selected")
		}
	}
	return nil
}

func (e *htmlElement) Dispatch(ev Event) error {
	if !e.Connected() {
		return ErrDetached
	}
	// The document only observes events that bubble up to it.
	if !ev.Bubbles {
		return nil
	}
	e.doc.events = append(e.doc.events, DispatchedEvent{Target: e, Event: ev})

	if ev.Type == "input" {
		if tracked, ok := e.doc.trackers[e.node]; ok {
			if v := e.Value(); v != tracked {
				e.doc.trackers[e.node] = v
				e.doc.changes = append(e.doc.changes, Change{Target: e, Value: v})
			}
		}
	}
	return nil
}

func getAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}
