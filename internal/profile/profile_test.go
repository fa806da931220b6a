package profile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"shoken-assist/backend/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() *model.StyleProfile {
	return &model.StyleProfile{
		StyleName:         "寄り添い型",
		Summary:           "温かく具体的",
		SentenceStructure: "短文中心",
		OverallTone:       "丁寧",
		Dos:               []string{"場面を示す", "過程を認める"},
		Donts:             []string{"比較しない"},
		PhraseBank:        []string{},
		ClosingPatterns:   []string{"今後も期待しています。"},
		Parameters:        []string{"教科"},
		UpdatedAt:         time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestToTable(t *testing.T) {
	rows := ToTable(sampleProfile())
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{
		"style_name", "summary", "sentence_structure", "overall_tone",
		"dos", "donts", "phrase_bank", "closing_patterns", "parameters", "updated_at",
	}, keys)
	assert.Equal(t, Row{"dos", "場面を示す\n過程を認める"}, rows[4])
	assert.Equal(t, Row{"updated_at", "2026-04-01T09:00:00Z"}, rows[9])
}

func TestFromTable_RoundTrip(t *testing.T) {
	want := sampleProfile()
	got, err := FromTable(ToTable(want))
	require.NoError(t, err)

	want.UpdatedAt = time.Time{}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestFromTable_MissingRequired(t *testing.T) {
	_, err := FromTable([]Row{{"style_name", "x"}, {"overall_tone", " "}})
	var loadErr *model.ProfileLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, []string{"sentence_structure", "overall_tone"}, loadErr.Missing)
}

func TestFromTable_AliasesAndUnknownKeys(t *testing.T) {
	got, err := FromTable([]Row{
		{"B_sentence_structure", "長文"},
		{"D_overall_tone", "客観的"},
		{"favorite_color", "blue"},
		{"dos", "a\r\n\r\nb\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, "長文", got.SentenceStructure)
	assert.Equal(t, "客観的", got.OverallTone)
	assert.Equal(t, []string{"a", "b"}, got.Dos)
	assert.Equal(t, []string{}, got.Donts)
}

func TestCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ToTable(sampleProfile())))
	assert.True(t, strings.HasPrefix(buf.String(), "key,value\n"))

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, ToTable(sampleProfile()), rows)
}

func TestReadCSV_HeaderOptional(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("\ufeffsentence_structure,短文\noverall_tone,丁寧\nlonely\n"))
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{"sentence_structure", "短文"},
		{"overall_tone", "丁寧"},
		{"lonely", ""},
	}, rows)
}

func TestReadCSV_Malformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("key,value\n\"unterminated,x\n"))
	var loadErr *model.ProfileLoadError
	assert.ErrorAs(t, err, &loadErr)
}
