// Package profile converts style profiles to and from the two-column
// key/value table users edit by hand.
package profile

import (
	"strings"
	"time"

	"shoken-assist/backend/internal/model"
)

// Row is one key/value line of the profile table
type Row struct {
	Key   string
	Value string
}

// Table keys, in the order they are written
const (
	KeyStyleName         = "style_name"
	KeySummary           = "summary"
	KeySentenceStructure = "sentence_structure"
	KeyOverallTone       = "overall_tone"
	KeyDos               = "dos"
	KeyDonts             = "donts"
	KeyPhraseBank        = "phrase_bank"
	KeyClosingPatterns   = "closing_patterns"
	KeyParameters        = "parameters"
	KeyUpdatedAt         = "updated_at"
)

var requiredKeys = []string{KeySentenceStructure, KeyOverallTone}

// keyAliases accepts tables exported before the keys were renamed
var keyAliases = map[string]string{
	"B_sentence_structure": KeySentenceStructure,
	"D_overall_tone":       KeyOverallTone,
}

// ToTable flattens p into rows. List values are newline-joined.
func ToTable(p *model.StyleProfile) []Row {
	if p == nil {
		p = &model.StyleProfile{}
	}
	rows := []Row{
		{KeyStyleName, p.StyleName},
		{KeySummary, p.Summary},
		{KeySentenceStructure, p.SentenceStructure},
		{KeyOverallTone, p.OverallTone},
		{KeyDos, strings.Join(p.Dos, "\n")},
		{KeyDonts, strings.Join(p.Donts, "\n")},
		{KeyPhraseBank, strings.Join(p.PhraseBank, "\n")},
		{KeyClosingPatterns, strings.Join(p.ClosingPatterns, "\n")},
		{KeyParameters, strings.Join(p.Parameters, "\n")},
	}
	if !p.UpdatedAt.IsZero() {
		rows = append(rows, Row{KeyUpdatedAt, p.UpdatedAt.Format(time.RFC3339)})
	}
	return rows
}

// FromTable rebuilds a profile from rows. Unknown keys and updated_at are
// ignored; the caller stamps the load time. sentence_structure and
// overall_tone must be present and non-empty.
func FromTable(rows []Row) (*model.StyleProfile, error) {
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		key := strings.TrimSpace(r.Key)
		if alias, ok := keyAliases[key]; ok {
			key = alias
		}
		if key == "" {
			continue
		}
		values[key] = strings.TrimSpace(r.Value)
	}

	var missing []string
	for _, k := range requiredKeys {
		if values[k] == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, &model.ProfileLoadError{Missing: missing}
	}

	p := model.StyleProfile{
		StyleName:         values[KeyStyleName],
		Summary:           values[KeySummary],
		SentenceStructure: values[KeySentenceStructure],
		OverallTone:       values[KeyOverallTone],
		Dos:               splitLines(values[KeyDos]),
		Donts:             splitLines(values[KeyDonts]),
		PhraseBank:        splitLines(values[KeyPhraseBank]),
		ClosingPatterns:   splitLines(values[KeyClosingPatterns]),
		Parameters:        splitLines(values[KeyParameters]),
	}
	return &p, nil
}

func splitLines(s string) []string {
	items := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}
