package filling

import "fmt"

// FillError represents a failure to write one field
type FillError struct {
	Field   string
	Message string
	Cause   error
}

func (e *FillError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fill %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("fill %s: %s", e.Field, e.Message)
}

func (e *FillError) Unwrap() error {
	return e.Cause
}
