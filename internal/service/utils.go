package service

import (
	"strings"
	"unicode/utf8"
)

// sanitizeUTF8 removes invalid UTF-8 sequences from generated text before it
// reaches JSON responses or PostgreSQL.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// promptField flattens a value onto one prompt line: newlines and the column
// separator are replaced, long text is cut at maxRunes.
func promptField(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(strings.ReplaceAll(s, "|", "/")), " ")
	if s == "" {
		return "-"
	}
	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		runes := []rune(s)
		s = string(runes[:maxRunes]) + "..."
	}
	return s
}
