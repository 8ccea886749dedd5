package filling

import (
	"fmt"

	"github.com/jonathan/form-autofill/internal/dom"
)

// ControlledInputBridge writes values so that UI frameworks which wrap the
// element's value property still observe the change.
//
// Contract: the value is written through the platform's original setter, then
// a bubbling input event is dispatched. A plain property assignment updates the
// framework's own tracker and the following input event is discarded as a no-op.
type ControlledInputBridge struct{}

// Write sets v on el and announces it with a bubbling input event.
func (ControlledInputBridge) Write(el dom.Element, v string) error {
	if err := el.NativeSetValue(v); err != nil {
		return fmt.Errorf("native value write failed: %w", err)
	}
	return el.Dispatch(dom.Event{Type: "input", Bubbles: true})
}

// settleEvents follow every write so listeners above the element see a committed edit.
var settleEvents = []string{"change", "blur"}

// dispatchSettle dispatches change and blur, bubbling.
func dispatchSettle(el dom.Element) error {
	for _, t := range settleEvents {
		if err := el.Dispatch(dom.Event{Type: t, Bubbles: true}); err != nil {
			return err
		}
	}
	return nil
}

// simulateEvents dispatches the full input, change, blur sequence after a direct mutation.
func simulateEvents(el dom.Element) error {
	if err := el.Dispatch(dom.Event{Type: "input", Bubbles: true}); err != nil {
		return err
	}
	return dispatchSettle(el)
}
