package browser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RefAttr is stamped on every element of the live page so snapshot elements
// can be mapped back to their live counterparts.
const RefAttr = "data-autofill-ref"

// Script results.
const (
	resultOK       = "ok"
	resultDetached = "detached"
)

// stampScript numbers every element that does not carry a ref yet.
const stampScript = `(() => {
	let next = Number(document.documentElement.getAttribute("data-autofill-next") || "0");
	for (const el of document.querySelectorAll("*")) {
		if (!el.hasAttribute("` + RefAttr + `")) {
			el.setAttribute("` + RefAttr + `", String(next++));
		}
	}
	document.documentElement.setAttribute("data-autofill-next", String(next));
	return next;
})()`

// jsString encodes s as a JavaScript string literal. Scripts are evaluated
// directly, never embedded in markup, so HTML characters stay verbatim.
func jsString(s string) string {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

func refSelector(ref string) string {
	return fmt.Sprintf(`[%s=%s]`, RefAttr, jsString(ref))
}

// withElement wraps body so that it runs against the live element with ref,
// bound to el. The script returns "detached" when the element is gone.
func withElement(ref, body string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el || !el.isConnected) return %q;
	%s
	return %q;
})()`, jsString(refSelector(ref)), resultDetached, body, resultOK)
}

// nativeSetValueScript writes through the prototype's value setter so that
// instance-level setters installed by UI frameworks are bypassed.
func nativeSetValueScript(ref, value string) string {
	return withElement(ref, fmt.Sprintf(`const proto = el instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype
		: el instanceof HTMLSelectElement ? HTMLSelectElement.prototype
		: HTMLInputElement.prototype;
	Object.getOwnPropertyDescriptor(proto, "value").set.call(el, %s);`, jsString(value)))
}

func setValueScript(ref, value string) string {
	return withElement(ref, fmt.Sprintf(`el.value = %s;`, jsString(value)))
}

func setCheckedScript(ref string, checked bool) string {
	return withElement(ref, fmt.Sprintf(`el.checked = %t;`, checked))
}

func selectOptionScript(ref string, index int) string {
	return withElement(ref, fmt.Sprintf(`el.selectedIndex = %d;`, index))
}

func dispatchScript(ref, eventType string, bubbles bool) string {
	return withElement(ref, fmt.Sprintf(`el.dispatchEvent(new Event(%s, { bubbles: %t }));`, jsString(eventType), bubbles))
}

func connectedScript(ref string) string {
	return withElement(ref, "")
}
