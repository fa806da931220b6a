package response

import (
	"strings"
	"testing"

	"shoken-assist/backend/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/genai"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "一段落目"},
				{Text: "考え中", Thought: true},
				{Text: ""},
				{Text: "二段落目"},
			}}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "別候補"}}}},
		},
	}
	assert.Equal(t, "一段落目\n二段落目", ExtractText(resp))
}

func TestExtractText_MissingStructure(t *testing.T) {
	assert.Equal(t, "", ExtractText(nil))
	assert.Equal(t, "", ExtractText(&genai.GenerateContentResponse{}))
	assert.Equal(t, "", ExtractText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}},
	}))
}

func TestParseJSONLenient(t *testing.T) {
	assert.Equal(t, map[string]any{"a": float64(1)}, ParseJSONLenient(`{"a":1}`))
	assert.Equal(t, map[string]any{"a": float64(1)}, ParseJSONLenient(`noise {"a":1} trailing`))
	assert.Nil(t, ParseJSONLenient("not json"))
}

func TestParseJSONLenient_Edges(t *testing.T) {
	assert.Nil(t, ParseJSONLenient(""))
	assert.Nil(t, ParseJSONLenient("null"))
	assert.Nil(t, ParseJSONLenient("} backwards {"))
	assert.Nil(t, ParseJSONLenient(`{"a": 1} and {"b": 2}`))

	fenced := "```json\n{\"style_name\": \"やさしい\"}\n```"
	assert.Equal(t, map[string]any{"style_name": "やさしい"}, ParseJSONLenient(fenced))
}

const analysisOutput = `以下が分析結果です。
{
  "style_name": "寄り添い型",
  "summary": "具体的な場面を挙げ、温かく励ます",
  "sentence_structure": "一文は短め。「〜することで」で因果をつなぐ",
  "overall_tone": "丁寧で温かい",
  "dos": ["具体的な場面を示す", "努力の過程を認める"],
  "phrase_bank": ["意欲的に取り組みました"],
  "closing_patterns": ["今後の活躍を期待しています。"],
  "parameters": ["教科", "単元"],
  "updated_at": "1999-01-01T00:00:00Z"
}`

func TestDecodeStyleProfile(t *testing.T) {
	profile, err := DecodeStyleProfile(analysisOutput)
	require.NoError(t, err)

	want := &model.StyleProfile{
		StyleName:         "寄り添い型",
		Summary:           "具体的な場面を挙げ、温かく励ます",
		SentenceStructure: "一文は短め。「〜することで」で因果をつなぐ",
		OverallTone:       "丁寧で温かい",
		Dos:               []string{"具体的な場面を示す", "努力の過程を認める"},
		Donts:             []string{},
		PhraseBank:        []string{"意欲的に取り組みました"},
		ClosingPatterns:   []string{"今後の活躍を期待しています。"},
		Parameters:        []string{"教科", "単元"},
	}
	if diff := cmp.Diff(want, profile); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeStyleProfile_LegacyKeysAndStringLists(t *testing.T) {
	profile, err := DecodeStyleProfile(`{
		"B_sentence_structure": "接続詞を多用",
		"D_overall_tone": "客観的",
		"donts": "否定的な断定\n他者との比較"
	}`)
	require.NoError(t, err)
	assert.Equal(t, "接続詞を多用", profile.SentenceStructure)
	assert.Equal(t, "客観的", profile.OverallTone)
	assert.Equal(t, []string{"否定的な断定", "他者との比較"}, profile.Donts)
	assert.Equal(t, []string{}, profile.Dos)
}

func TestDecodeStyleProfile_Malformed(t *testing.T) {
	tests := map[string]string{
		"no json":        "分析できませんでした",
		"missing tone":   `{"sentence_structure": "短文"}`,
		"blank fields":   `{"sentence_structure": "  ", "overall_tone": "丁寧"}`,
		"wrong type":     `{"sentence_structure": "短文", "overall_tone": "丁寧", "dos": [1, 2]}`,
		"scalar as list": `{"sentence_structure": ["短文"], "overall_tone": "丁寧"}`,
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeStyleProfile(text)
			var malformed *model.MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, model.OperationAnalyze, malformed.Operation)
		})
	}
}

func TestDecodeStyleProfile_SchemaErrorNamesField(t *testing.T) {
	_, err := DecodeStyleProfile(`{"sentence_structure": "短文"}`)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, strings.Join(schemaErr.Fields, " "), "overall_tone")
}

func TestNormalize_StripsQuotes(t *testing.T) {
	assert.Equal(t, "Hello", Normalize(`"Hello"`))
	assert.Equal(t, "よくがんばりました。", Normalize("「よくがんばりました。」"))
	assert.Equal(t, "よくがんばりました。", Normalize("  『よくがんばりました。』\n"))
}

func TestNormalize_CapsParagraphs(t *testing.T) {
	in := "一段落目です。\n\n二段落目です。\n\n三段落目です。"
	assert.Equal(t, "一段落目です。\n\n二段落目です。", Normalize(in))

	in = "一段落目です。\r\n\r\n\r\n二段落目です。\n \n三段落目です。\n\n四段落目です。"
	assert.Equal(t, "一段落目です。\n\n二段落目です。", Normalize(in))
}

func TestNormalize_KeepsTwoParagraphsAsIs(t *testing.T) {
	in := "一段落目です。\n\n二段落目です。"
	assert.Equal(t, in, Normalize(in))
	assert.Equal(t, "一行目\n二行目", Normalize("一行目\n二行目"))
}
