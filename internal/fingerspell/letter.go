package fingerspell

import (
	"context"
	"encoding/json"
	"fmt"
)

// Kind classifies a single character of a resolved word
type Kind int

const (
	KindLetter Kind = iota
	KindSpace
	KindUnsupported
)

// String returns the wire name used by the transcribe endpoint
func (k Kind) String() string {
	switch k {
	case KindLetter:
		return "letter"
	case KindSpace:
		return "space"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// ParseKind maps a wire name back to a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "letter":
		return KindLetter, nil
	case "space":
		return KindSpace, nil
	case "unsupported":
		return KindUnsupported, nil
	default:
		return 0, fmt.Errorf("unknown letter type %q", s)
	}
}

// MarshalJSON implements json.Marshaler
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// LetterUnit is one resolved character together with the image that signs it
type LetterUnit struct {
	Char      string `json:"char"`
	Kind      Kind   `json:"type"`
	ImagePath string `json:"imagePath"`
}

// Caption returns the text shown above the sign image
func (u LetterUnit) Caption() string {
	if u.Kind == KindSpace {
		return "[space]"
	}
	return upper(u.Char)
}

// Resolver turns a word into its fingerspelling units
type Resolver interface {
	// Resolve returns one unit per character of the lower-cased word
	Resolve(ctx context.Context, word string) ([]LetterUnit, error)

	// Name returns the resolver name
	Name() string
}

func upper(s string) string {
	if len(s) == 1 && s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0] - 'a' + 'A')
	}
	return s
}
