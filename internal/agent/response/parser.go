package response

import (
	"encoding/json"
	"strings"

	"google.golang.org/genai"
)

// ExtractText joins the text parts of the first candidate with newlines.
// It returns "" when the response has no usable structure; callers decide
// whether that is fatal.
func ExtractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		texts = append(texts, part.Text)
	}
	return strings.Join(texts, "\n")
}

// ParseJSONLenient parses s as a JSON object. When strict parsing fails it
// retries on the span from the first "{" to the last "}", which recovers
// objects wrapped in prose or code fences. It returns nil if both fail.
func ParseJSONLenient(s string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err == nil && obj != nil {
		return obj
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil
	}

	obj = nil
	if err := json.Unmarshal([]byte(s[start:end+1]), &obj); err != nil {
		return nil
	}
	return obj
}
