package extractor

import (
	"regexp"
	"strings"
)

var (
	spaceRun    = regexp.MustCompile(`\s+`)
	blankRun    = regexp.MustCompile(`\n{3,}`)
	onclickIdx  = regexp.MustCompile(`\((\d+)\)`)
)

// CleanSpaces collapses every whitespace run in s to a single space and
// trims the result.
func CleanSpaces(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// NormalizeParagraphs normalizes raw extracted text: each line has its
// internal whitespace collapsed and is trimmed, runs of three or more
// newlines collapse to a single blank line, and the whole result is
// trimmed.
func NormalizeParagraphs(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	text := strings.Join(lines, "\n")
	return strings.TrimSpace(blankRun.ReplaceAllString(text, "\n\n"))
}

// IdxFromOnclick extracts the first integer argument from an inline click
// handler expression such as "fnView(12345)". It returns an empty string
// when no numeric argument is present.
func IdxFromOnclick(onclick string) string {
	m := onclickIdx.FindStringSubmatch(onclick)
	if m == nil {
		return ""
	}
	return m[1]
}
