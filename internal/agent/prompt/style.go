package prompt

import (
	"strings"

	"shoken-assist/backend/internal/model"
)

// Caps on how many profile list entries reach the instruction
const (
	maxDos             = 5
	maxDonts           = 5
	maxPhrases         = 5
	maxClosingPatterns = 3
)

// FormatStyleGuidance renders a style profile as a bulleted guidance block.
// A nil profile yields DefaultStyleGuidance.
func FormatStyleGuidance(profile *model.StyleProfile) string {
	if profile == nil {
		return DefaultStyleGuidance
	}

	var lines []string
	if profile.SentenceStructure != "" {
		lines = append(lines, "文の構成: "+profile.SentenceStructure)
	}
	if profile.OverallTone != "" {
		lines = append(lines, "全体トーン: "+profile.OverallTone)
	}
	lines = appendList(lines, "推奨: ", profile.Dos, maxDos)
	lines = appendList(lines, "避ける: ", profile.Donts, maxDonts)
	lines = appendList(lines, "言い回し: ", profile.PhraseBank, maxPhrases)
	lines = appendList(lines, "締め: ", profile.ClosingPatterns, maxClosingPatterns)
	lines = append(lines, PoliteRegister)

	return strings.Join(lines, "\n- ")
}

func appendList(lines []string, label string, items []string, limit int) []string {
	var kept []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
		if len(kept) == limit {
			break
		}
	}
	if len(kept) == 0 {
		return lines
	}
	return append(lines, label+strings.Join(kept, " / "))
}
