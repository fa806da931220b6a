package agent

import (
	"context"
	"sync"

	"shoken-assist/backend/internal/agent/deps"

	"google.golang.org/genai"
)

type llmCall struct {
	Prompt string
	Params deps.GenerationParams
}

// fakeLLM answers every call with the same text unless respond is set
type fakeLLM struct {
	mu      sync.Mutex
	calls   []llmCall
	text    string
	err     error
	respond func(prompt string) (string, error)
}

func (f *fakeLLM) Invoke(ctx context.Context, creds deps.CredentialSource, prompt string, params deps.GenerationParams) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, llmCall{Prompt: prompt, Params: params})
	f.mu.Unlock()

	if _, err := creds.APIKey(ctx); err != nil {
		return nil, err
	}
	text, err := f.text, f.err
	if f.respond != nil {
		text, err = f.respond(prompt)
	}
	if err != nil {
		return nil, err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}, nil
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
