package utils

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DefaultMaxStringLength bounds response bodies quoted in error messages.
const DefaultMaxStringLength = 500

// JSONToString encodes object as compact JSON for diagnostics. A value that
// cannot be encoded yields a small JSON error object instead.
func JSONToString(object any) string {
	encoded, err := json.Marshal(object)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, "failed to marshal to JSON: "+err.Error())
	}
	return string(encoded)
}

// TruncateString keeps the first maxLen characters of s and notes the
// original length. maxLen <= 0 means [DefaultMaxStringLength].
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	total := utf8.RuneCountInString(s)
	if total <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", Preview(s, maxLen), total)
}

// Preview returns the first maxRunes characters of s. It never splits a
// multi-byte character.
func Preview(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i]
		}
		count++
	}
	return s
}

// RuneCount reports the number of characters in s.
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}
