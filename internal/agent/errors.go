package agent

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindCompletion ErrorKind = "completion"
	KindSearch     ErrorKind = "search"
	KindEmpty      ErrorKind = "empty_response"
)

// Error is returned by every call to an external service. Message is safe to
// show to the patient; Err keeps the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Stage   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s/%s): %v", e.Message, e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s/%s)", e.Message, e.Stage, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
