package validators

import "strings"

// SanitizeString trims whitespace and clamps to maxLen runes, matching the
// rune counting the struct validators use.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return trimmed
}
