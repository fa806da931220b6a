package deps

import (
	"context"

	"google.golang.org/genai"
)

// GenerationParams are the sampling options sent with a generation request
type GenerationParams struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

var (
	// AnalysisParams keeps style extraction close to deterministic
	AnalysisParams = GenerationParams{Temperature: 0.2, TopP: 0.9, MaxOutputTokens: 2048}
	// RemarkParams leaves room for variety between generated remarks
	RemarkParams = GenerationParams{Temperature: 0.6, TopP: 0.95, MaxOutputTokens: 2048}
)

// CredentialSource yields the API key a generation call is made with.
// An empty key means no credential is stored.
type CredentialSource interface {
	APIKey(ctx context.Context) (string, error)
}

// LLMClient abstracts the single generation call each operation makes
type LLMClient interface {
	Invoke(ctx context.Context, creds CredentialSource, prompt string, params GenerationParams) (*genai.GenerateContentResponse, error)
}

// KeyValueStore abstracts the per-user property storage
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
