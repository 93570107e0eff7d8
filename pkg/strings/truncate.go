package strings

import (
	"strings"
)

// DefaultDescriptionMaxLen is the column width used for descriptions in table output.
const DefaultDescriptionMaxLen = 60

// MinTruncateLen is the smallest maxLen accepted by TruncateDescription.
const MinTruncateLen = 4

// Ellipsis marks text that was cut short.
const Ellipsis = "..."

// TruncateDescription collapses all whitespace runs into single spaces and cuts
// the result to at most maxLen runes, ellipsis included. maxLen values below
// MinTruncateLen are raised to MinTruncateLen.
func TruncateDescription(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-len(Ellipsis)]) + Ellipsis
	}
	return s
}

// TruncateWithEllipsis keeps the first maxLen runes of s and appends Ellipsis
// when anything was dropped. Unlike TruncateDescription the content is left
// untouched and the marker is not counted against maxLen.
// A non-positive maxLen disables truncation.
func TruncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + Ellipsis
}

// FirstLine returns the first non-blank line of s with surrounding whitespace
// removed, or an empty string when s has no visible content.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
