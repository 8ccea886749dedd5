package scanning

import "fmt"

// ScanError represents a failure to enumerate the fields of a document
type ScanError struct {
	Message string
	Cause   error
}

func (e *ScanError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scan failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("scan failed: %s", e.Message)
}

func (e *ScanError) Unwrap() error {
	return e.Cause
}
