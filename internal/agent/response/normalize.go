package response

import (
	"regexp"
	"strings"
)

// MaxParagraphs is the number of paragraphs a remark may keep
const MaxParagraphs = 2

// quoteChars are stripped from both ends of generated remarks
const quoteChars = `"'「」『』`

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Normalize strips wrapping quotes and caps the remark at MaxParagraphs
// blank-line-separated paragraphs.
func Normalize(text string) string {
	t := strings.ReplaceAll(text, "\r\n", "\n")
	t = strings.TrimSpace(t)
	t = strings.Trim(t, quoteChars)
	t = strings.TrimSpace(t)

	parts := paragraphBreak.Split(t, -1)
	if len(parts) > MaxParagraphs {
		t = strings.Join(parts[:MaxParagraphs], "\n\n")
	}
	return t
}
