// Package strutil provides common string helpers for cell and console text.
package strutil

import (
	"strings"
)

// CleanCell normalizes one raw spreadsheet cell: strips a UTF-8 BOM,
// replaces invalid UTF-8 sequences, and trims surrounding whitespace.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToValidUTF8(s, "")

	return strings.TrimSpace(s)
}

// NormalizeWhitespace replaces runs of whitespace with a single space.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to maxLength runes, appending "..." when cut.
func Truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	return string(runes[:maxLength]) + "..."
}
