package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"shoken-assist/backend/internal/agent/deps"
	"shoken-assist/backend/internal/agent/response"
	"shoken-assist/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type staticKey string

func (k staticKey) APIKey(context.Context) (string, error) { return string(k), nil }

type failingKey struct{ err error }

func (k failingKey) APIKey(context.Context) (string, error) { return "", k.err }

type capturedRequest struct {
	Path   string
	APIKey string
	Body   map[string]any
}

func newGeminiServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Path = r.URL.Path
		captured.APIKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func newTestClient(server *httptest.Server) *GeminiLLMClient {
	return NewGeminiLLMClient(GeminiConfig{
		BaseURL:    server.URL + "/",
		HTTPClient: server.Client(),
	}, nil)
}

const okBody = `{"candidates":[{"content":{"role":"model","parts":[{"text":"よく"},{"text":"がんばりました。"}]},"finishReason":"STOP"}]}`

func TestGeminiLLMClient_Invoke(t *testing.T) {
	server, captured := newGeminiServer(t, http.StatusOK, okBody)
	client := newTestClient(server)

	resp, err := client.Invoke(context.Background(), staticKey("test-key"), "指示文", deps.RemarkParams)
	require.NoError(t, err)
	assert.Equal(t, "よく\nがんばりました。", response.ExtractText(resp))

	assert.Equal(t, "/v1/models/"+DefaultModel+":generateContent", captured.Path)
	assert.Equal(t, "test-key", captured.APIKey)

	contents := captured.Body["contents"].([]any)
	require.Len(t, contents, 1)
	first := contents[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
	parts := first["parts"].([]any)
	assert.Equal(t, "指示文", parts[0].(map[string]any)["text"])

	genConfig := captured.Body["generationConfig"].(map[string]any)
	assert.InDelta(t, 0.6, genConfig["temperature"], 1e-6)
	assert.InDelta(t, 0.95, genConfig["topP"], 1e-6)
	assert.EqualValues(t, 2048, genConfig["maxOutputTokens"])
}

func TestGeminiLLMClient_MissingCredential(t *testing.T) {
	server, captured := newGeminiServer(t, http.StatusOK, okBody)
	client := newTestClient(server)

	_, err := client.Invoke(context.Background(), staticKey(""), "指示文", deps.AnalysisParams)
	var missing *model.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Empty(t, captured.Path, "no request without a key")
}

func TestGeminiLLMClient_CredentialSourceError(t *testing.T) {
	server, _ := newGeminiServer(t, http.StatusOK, okBody)
	client := newTestClient(server)

	storeErr := errors.New("store offline")
	_, err := client.Invoke(context.Background(), failingKey{err: storeErr}, "指示文", deps.AnalysisParams)
	assert.ErrorIs(t, err, storeErr)
}

func TestGeminiLLMClient_UpstreamError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   codes.Code
	}{
		{"bad request", http.StatusBadRequest, codes.InvalidArgument},
		{"forbidden", http.StatusForbidden, codes.PermissionDenied},
		{"not found", http.StatusNotFound, codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"error":{"code":` + strconv.Itoa(tt.status) + `,"message":"API key not valid","status":"INVALID"}}`
			server, _ := newGeminiServer(t, tt.status, body)
			client := newTestClient(server)

			_, err := client.Invoke(context.Background(), staticKey("bad"), "指示文", deps.RemarkParams)
			var upstream *model.UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Equal(t, tt.status, upstream.Status)
			assert.Contains(t, upstream.Body, "API key not valid")
			assert.Equal(t, tt.code, status.Code(upstream))
		})
	}
}

func TestGeminiLLMClient_Blocked(t *testing.T) {
	tests := map[string]string{
		"no candidate":  `{"candidates":[]}`,
		"safety finish": `{"candidates":[{"content":{"role":"model","parts":[]},"finishReason":"SAFETY"}]}`,
		"prompt block":  `{"promptFeedback":{"blockReason":"SAFETY"}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			server, _ := newGeminiServer(t, http.StatusOK, body)
			client := newTestClient(server)

			_, err := client.Invoke(context.Background(), staticKey("k"), "指示文", deps.RemarkParams)
			var blocked *model.BlockedContentError
			require.ErrorAs(t, err, &blocked)
			assert.NotEmpty(t, blocked.Reason)
		})
	}
}
