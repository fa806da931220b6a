package model

import "time"

// StyleProfile describes a teacher's writing style as inferred from past remarks
// or as hand-edited in the profile table.
type StyleProfile struct {
	StyleName         string    `json:"style_name"`
	Summary           string    `json:"summary"`
	SentenceStructure string    `json:"sentence_structure"`
	OverallTone       string    `json:"overall_tone"`
	Dos               []string  `json:"dos"`
	Donts             []string  `json:"donts"`
	PhraseBank        []string  `json:"phrase_bank"`
	ClosingPatterns   []string  `json:"closing_patterns"`
	Parameters        []string  `json:"parameters,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitzero"`
}

// StyleProfileSummary is the externally displayed projection of a StyleProfile
type StyleProfileSummary struct {
	StyleName         string    `json:"style_name"`
	Summary           string    `json:"summary"`
	SentenceStructure string    `json:"sentence_structure"`
	OverallTone       string    `json:"overall_tone"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Valid reports whether the profile carries the two fields remark generation relies on.
func (p *StyleProfile) Valid() bool {
	return p != nil && p.SentenceStructure != "" && p.OverallTone != ""
}

// Summarize projects the profile to its summary view, stamped with now.
// A nil profile yields an empty summary.
func (p *StyleProfile) Summarize(now time.Time) StyleProfileSummary {
	if p == nil {
		return StyleProfileSummary{UpdatedAt: now}
	}
	return StyleProfileSummary{
		StyleName:         p.StyleName,
		Summary:           p.Summary,
		SentenceStructure: p.SentenceStructure,
		OverallTone:       p.OverallTone,
		UpdatedAt:         now,
	}
}

// WithDefaults returns a copy whose list fields are never nil.
func (p StyleProfile) WithDefaults() StyleProfile {
	p.Dos = orEmpty(p.Dos)
	p.Donts = orEmpty(p.Donts)
	p.PhraseBank = orEmpty(p.PhraseBank)
	p.ClosingPatterns = orEmpty(p.ClosingPatterns)
	p.Parameters = orEmpty(p.Parameters)
	return p
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
