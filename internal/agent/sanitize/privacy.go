// Package sanitize rewrites teacher-provided text before it leaves the process.
//
// The rules are tuned for Japanese school-context notes. They are a best-effort
// filter, not a guarantee: the name rule redacts any 2-4 ideograph compound
// (place names and common nouns included) and misses names written in kana or
// Latin script.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Placeholders substituted for redacted content
const (
	ContactPlaceholder = "[contact]"
	NumberPlaceholder  = "[number]"
	PersonPlaceholder  = "[person]"
	GenericCompetition = "ある大会"
	GenericSchool      = "ある学校"
	GenericClass       = "ある学年の学級"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// privacyRules run in order; the name rule assumes contacts and numbers are already gone.
var privacyRules = []rule{
	{regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`), ContactPlaceholder},
	{regexp.MustCompile(`\b\d{2,4}[-\s]?\d{2,4}[-\s]?\d{3,4}\b`), NumberPlaceholder},
	{regexp.MustCompile(`[一-龥]{2,4}(?:さん|くん|ちゃん)?`), PersonPlaceholder},
	{regexp.MustCompile(`[一-龥A-Za-z0-9]+大会`), GenericCompetition},
	{regexp.MustCompile(`[一-龥A-Za-z0-9]+(?:小学校|中学校|高等学校)`), GenericSchool},
	{regexp.MustCompile(`[1-6]年[1-9]組`), GenericClass},
}

// genericPhrases are outputs of earlier passes; they pass through untouched so
// that Privacy(Privacy(x)) == Privacy(x).
var genericPhrases = regexp.MustCompile(GenericClass + `|` + GenericCompetition + `|` + GenericSchool)

// Privacy redacts contact details, phone-like numbers, probable personal names,
// competition names, school names and grade/class identifiers.
func Privacy(text string) string {
	text = norm.NFKC.String(text)

	var sb strings.Builder
	last := 0
	for _, loc := range genericPhrases.FindAllStringIndex(text, -1) {
		sb.WriteString(applyRules(text[last:loc[0]], privacyRules))
		sb.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	sb.WriteString(applyRules(text[last:], privacyRules))

	return strings.TrimSpace(sb.String())
}

// Contacts applies only the contact and number rules. It is safe to run on
// generated prose, where the name heuristic would destroy ordinary vocabulary.
func Contacts(text string) string {
	return applyRules(text, privacyRules[:2])
}

// Lines splits multi-line memo input, drops blank lines and sanitizes each line.
func Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		if cleaned := Privacy(line); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return lines
}

func applyRules(text string, rules []rule) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllLiteralString(text, r.replacement)
	}
	return text
}
