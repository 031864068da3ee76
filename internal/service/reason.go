package service

import (
	"regexp"
	"strings"
)

var (
	idTokenRe     = regexp.MustCompile(`(?i)\bID[:\s]*\d+`)
	emptyParensRe = regexp.MustCompile(`\(\s*\)`)
	whitespaceRe  = regexp.MustCompile(`\s{2,}`)
)

// CleanReason strips leaked club identifiers ("ID:3", "id 7") from generated
// text, drops the parentheses they leave behind and normalises whitespace.
// Blank input is returned untouched. The rules are repeated until nothing
// changes, so CleanReason(CleanReason(x)) == CleanReason(x).
func CleanReason(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	for {
		cleaned := cleanReasonOnce(text)
		if cleaned == text {
			return cleaned
		}
		text = cleaned
	}
}

func cleanReasonOnce(text string) string {
	text = idTokenRe.ReplaceAllString(text, "")
	text = emptyParensRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
