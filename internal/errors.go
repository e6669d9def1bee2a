package internal

import "errors"

// ErrTextRequired is returned when a request carries no text to work on
var ErrTextRequired = errors.New("Text is required")

// InputError reports missing or blank input
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// Is lets errors.Is(err, ErrTextRequired) match any InputError
func (e *InputError) Is(target error) bool {
	return target == ErrTextRequired
}
