package internal

import (
	"strconv"
	"testing"
	"time"
)

func TestGenerateTranslationID(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000).Add(time.Hour * 24 * 365 * 100)

	first := GenerateTranslationID(now)
	second := GenerateTranslationID(now)

	if first == second {
		t.Fatalf("Expected unique IDs, got %s twice", first)
	}

	a, err := strconv.ParseInt(first, 10, 64)
	if err != nil {
		t.Fatalf("ID is not numeric: %v", err)
	}
	b, _ := strconv.ParseInt(second, 10, 64)
	if b <= a {
		t.Errorf("Expected IDs to increase, got %d then %d", a, b)
	}
	if a != now.UnixMilli() {
		t.Errorf("Expected first ID to equal epoch millis %d, got %d", now.UnixMilli(), a)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"hello world", "hello_world"},
		{"signs.db", "signs_db"},
		{"a-b_c", "a-b_c"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.expected {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
