package internal

import (
	"errors"
	"fmt"
	"testing"
)

func TestInputError_MatchesErrTextRequired(t *testing.T) {
	err := fmt.Errorf("translate: %w", &InputError{Reason: "blank"})

	if !errors.Is(err, ErrTextRequired) {
		t.Errorf("Expected wrapped InputError to match ErrTextRequired")
	}

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Expected InputError, got %T", err)
	}
	if inputErr.Error() != "blank" {
		t.Errorf("Expected reason %q, got %q", "blank", inputErr.Error())
	}
	if errors.Is(errors.New("other"), ErrTextRequired) {
		t.Errorf("Unrelated error must not match ErrTextRequired")
	}
}
