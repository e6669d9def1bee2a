package fingerspell

import (
	"fmt"

	"codeberg.org/snonux/signopsis/internal"
)

// ErrTextRequired is returned when a request carries no text to resolve
var ErrTextRequired = internal.ErrTextRequired

// InputError reports missing or blank input
type InputError = internal.InputError

// TransportError reports a failed call to the remote resolver. StatusCode is
// zero when no HTTP response was received.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("transcribe returned %d: %s: %v", e.StatusCode, e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("transcribe returned %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("transcribe: %s: %v", e.Message, e.Err)
	default:
		return "transcribe: " + e.Message
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// InternalError wraps an unexpected failure while processing a request
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}
