package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"shoken-assist/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cannedRemark = "一学期当初は緊張した様子でしたが、係活動を通して自信をつけ、友達に進んで声をかける姿が増えました。"

var cannedProfile = map[string]any{
	"style_name":         "やわらかい語り口",
	"summary":            "事実から成長へつなげる",
	"sentence_structure": "です・ます調で一文は短め",
	"overall_tone":       "温かく前向き",
	"dos":                []string{"具体的な場面を書く"},
}

type fakeGemini struct {
	server *httptest.Server
	calls  atomic.Int32
}

// newFakeGemini answers analysis prompts with a profile and everything else with a remark
func newFakeGemini(t *testing.T) *fakeGemini {
	t.Helper()
	f := &fakeGemini{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		raw, _ := io.ReadAll(r.Body)

		text := cannedRemark
		if strings.Contains(string(raw), "overall_tone") {
			encoded, _ := json.Marshal(cannedProfile)
			text = string(encoded)
		}
		body, _ := json.Marshal(map[string]any{
			"candidates": []any{map[string]any{
				"content":      map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}},
				"finishReason": "STOP",
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(f.server.Close)
	return f
}

type testEnv struct {
	dir    string
	vars   map[string]string
	gemini *fakeGemini
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	g := newFakeGemini(t)
	return &testEnv{
		dir:    dir,
		gemini: g,
		vars: map[string]string{
			"LOG_LEVEL":       "error",
			"GEMINI_BASE_URL": g.server.URL + "/",
			"SQLITE_PATH":     filepath.Join(dir, "shoken.db"),
		},
	}
}

func (e *testEnv) lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := &cli{lookup: e.lookup}
	defer c.close()

	cmd := newRootCmd(c)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleText = `明るく前向きに学習に取り組みました。

係活動では責任をもって仕事を続けました。

友達の意見をよく聞き、協力して課題を進めました。

苦手な計算にも粘り強く取り組みました。

音読の発表では堂々と読み上げました。
`

func TestSetKeyThenGenerate(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "generate", "--memo", "係活動を頑張った")
	var missing *model.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Zero(t, env.gemini.calls.Load())

	out, _, err := env.run(t, "set-key", "test-key")
	require.NoError(t, err)
	assert.Contains(t, out, "保存しました")

	out, _, err = env.run(t, "generate", "--memo", "係活動を頑張った", "--goal", "a", "--grade", "elementary_3")
	require.NoError(t, err)
	assert.Equal(t, cannedRemark+"\n", out)
	assert.EqualValues(t, 1, env.gemini.calls.Load())
}

func TestGenerate_JSONOutput(t *testing.T) {
	env := newTestEnv(t)
	env.vars["GEMINI_API_KEY"] = "server-key"

	out, _, err := env.run(t, "generate", "-m", "音読を練習した", "--sheet", "3組", "--cell", "D5", "--json")
	require.NoError(t, err)

	var remark model.GeneratedRemark
	require.NoError(t, json.Unmarshal([]byte(out), &remark))
	assert.Equal(t, cannedRemark, remark.Text)
	assert.Equal(t, "3組!D5", remark.WrittenTo)
	assert.NotEmpty(t, remark.ID)
}

func TestGenerate_RequiresMemo(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "generate", "--goal", "A")
	require.Error(t, err)
}

func TestUsersAreIsolated(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "--user", "alice", "set-key", "alice-key")
	require.NoError(t, err)

	_, _, err = env.run(t, "--user", "bob", "generate", "-m", "memo")
	var missing *model.MissingCredentialError
	assert.ErrorAs(t, err, &missing)
}

func TestSamplesAndAnalyze(t *testing.T) {
	env := newTestEnv(t)
	env.vars["GEMINI_API_KEY"] = "server-key"

	out, _, err := env.run(t, "samples", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "例）")

	_, _, err = env.run(t, "analyze")
	var insufficient *model.InsufficientInputError
	require.ErrorAs(t, err, &insufficient)
	assert.Zero(t, env.gemini.calls.Load())

	path := env.writeFile(t, "samples.txt", sampleText)
	out, _, err = env.run(t, "samples", "set", path)
	require.NoError(t, err)
	assert.Contains(t, out, "5件")

	out, _, err = env.run(t, "analyze")
	require.NoError(t, err)
	var summary model.StyleProfileSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "温かく前向き", summary.OverallTone)

	out, _, err = env.run(t, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "です・ます調で一文は短め")
}

func TestProfileExportImportReset(t *testing.T) {
	env := newTestEnv(t)
	env.vars["GEMINI_API_KEY"] = "server-key"

	_, _, err := env.run(t, "profile", "export")
	require.Error(t, err)

	_, _, err = env.run(t, "analyze", "--samples", env.writeFile(t, "samples.txt", sampleText))
	require.NoError(t, err)

	exported := filepath.Join(env.dir, "profile.csv")
	_, _, err = env.run(t, "profile", "export", "--out", exported)
	require.NoError(t, err)

	raw, err := os.ReadFile(exported)
	require.NoError(t, err)
	edited := strings.Replace(string(raw), "温かく前向き", "落ち着いて丁寧", 1)
	require.NotEqual(t, string(raw), edited)

	out, _, err := env.run(t, "profile", "import", env.writeFile(t, "edited.csv", edited))
	require.NoError(t, err)
	assert.Contains(t, out, "落ち着いて丁寧")

	_, _, err = env.run(t, "profile", "reset")
	require.NoError(t, err)
	out, _, err = env.run(t, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "まだありません")
}

func TestBatch(t *testing.T) {
	env := newTestEnv(t)
	env.vars["GEMINI_API_KEY"] = "server-key"

	in := env.writeFile(t, "in.csv", "sheet,cell,goal,grade,chars,memo\n"+
		"3組,D2,A,elementary_3,200,\"係活動を頑張った\n音読が上達した\"\n"+
		"3組,D3,B,,,\n"+
		"3組,D4,C,,,計算を練習した\n")
	outPath := filepath.Join(env.dir, "out.csv")

	_, stderr, err := env.run(t, "batch", "--in", in, "--out", outPath, "--concurrency", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "1/3 rows failed")

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "sheet,cell,remark,warnings,error", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "3組,D2,"+cannedRemark))
	assert.True(t, strings.HasPrefix(lines[2], "3組,D3,,,"))
	assert.True(t, strings.HasPrefix(lines[3], "3組,D4,"+cannedRemark))
	assert.EqualValues(t, 2, env.gemini.calls.Load())
}

func TestReadBatchCSV(t *testing.T) {
	reqs, err := readBatchCSV(strings.NewReader("\ufeffMemo,Cell,Chars\n\"a\r\nb\",B2,150\nc,,\n"))
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, []string{"a", "b"}, reqs[0].MemoLines)
	require.NotNil(t, reqs[0].CharCount)
	assert.Equal(t, 150, *reqs[0].CharCount)
	assert.Equal(t, "B2", reqs[0].Destination.Cell)
	assert.Equal(t, model.GoalBalanced, reqs[0].GoalCode)

	assert.Nil(t, reqs[1].Destination)
	assert.Nil(t, reqs[1].CharCount)

	_, err = readBatchCSV(strings.NewReader("cell,goal\nB2,A\n"))
	assert.ErrorContains(t, err, `"memo"`)

	_, err = readBatchCSV(strings.NewReader("memo,chars\nx,many\n"))
	assert.ErrorContains(t, err, "row 2")

	_, err = readBatchCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("一つ目の文。\r\n続き。\r\n\r\n\r\n二つ目。  \n")
	assert.Equal(t, []string{"一つ目の文。\n続き。", "二つ目。"}, got)
	assert.Empty(t, splitParagraphs("\n \n"))
}
