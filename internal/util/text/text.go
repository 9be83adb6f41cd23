// Package text shortens tool output for menus, tooltips and notifications.
package text

import (
	"strings"
	"unicode/utf8"
)

// LastLine returns the last non-empty line of s, trimmed. Tracebacks end with
// the line that names the error.
func LastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// Truncate shortens s to at most maxLen runes, ending in "..." when cut.
// It never splits a multi-byte character.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", max(maxLen, 0))
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
