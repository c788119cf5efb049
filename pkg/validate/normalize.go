package validate

import (
	"regexp"
	"strings"
)

var (
	newLines   = regexp.MustCompile(`\s*[\r\n]+\s*`)
	whitespace = regexp.MustCompile(`\s+`)
)

// StripNewLines replaces each embedded line break, with the whitespace around
// it, by a single space and trims the result.
func StripNewLines(s string) string {
	return strings.TrimSpace(newLines.ReplaceAllString(s, " "))
}

// FilterString collapses every run of whitespace to one space and trims the
// result.
func FilterString(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
