package internal

import (
	"strconv"
	"sync/atomic"
	"time"
)

var lastIDMillis atomic.Int64

// GenerateTranslationID creates a unique ID from the creation time in epoch
// milliseconds. IDs issued within the same millisecond are bumped forward so
// they stay unique and ordered.
func GenerateTranslationID(now time.Time) string {
	millis := now.UnixMilli()
	for {
		last := lastIDMillis.Load()
		next := millis
		if next <= last {
			next = last + 1
		}
		if lastIDMillis.CompareAndSwap(last, next) {
			return strconv.FormatInt(next, 10)
		}
	}
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	result := ""
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			result += string(r)
		} else {
			result += "_"
		}
	}
	return result
}

// isAlphaNumeric checks if a rune is an ASCII letter or digit
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
