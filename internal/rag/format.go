package rag

import (
	"regexp"
	"strings"
)

var (
	// bullet or numbered item stuck on the same line as preceding text
	inlineBulletRe = regexp.MustCompile(`([^\n])[ \t]*(• )`)
	inlineNumberRe = regexp.MustCompile(`([^\n])[ \t]+(\d+\. )`)

	// a header line like "**Available Information**:" not followed by a
	// blank line
	headerLineRe = regexp.MustCompile(`(?m)^(\*\*[^\n]+?\*\*:?)\s*\n`)

	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// NormalizeAnswer applies the cosmetic formatting pass to raw model
// output: list items each on their own line, a blank line after header
// markers, and runs of blank lines collapsed. The pass is idempotent
// and never fails; worst case the text comes back unchanged.
func NormalizeAnswer(text string) string {
	text = inlineBulletRe.ReplaceAllString(text, "$1\n$2")
	text = inlineNumberRe.ReplaceAllString(text, "$1\n$2")
	text = headerLineRe.ReplaceAllString(text, "$1\n\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
