package answering

import "fmt"

// AnswerError represents a failure at one stage of answering a question
type AnswerError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *AnswerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("answer %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("answer %s: %s", e.Stage, e.Message)
}

func (e *AnswerError) Unwrap() error {
	return e.Cause
}
