package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"shoken-assist/backend/internal/agent/deps"
	"shoken-assist/backend/internal/logging"
	"shoken-assist/backend/internal/model"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the Gemini model remarks and analyses are generated with
	DefaultModel = "gemini-2.0-flash-001"
	// DefaultAPIVersion is the generateContent API version
	DefaultAPIVersion = "v1"
)

// GeminiConfig configures the Gemini endpoint
type GeminiConfig struct {
	Model      string
	APIVersion string
	// BaseURL overrides the public endpoint; empty uses the SDK default
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiLLMClient implements deps.LLMClient using the Gemini API.
// A genai client is created per call because the key belongs to the caller.
type GeminiLLMClient struct {
	cfg    GeminiConfig
	logger *zap.Logger
}

// NewGeminiLLMClient creates a new GeminiLLMClient
func NewGeminiLLMClient(cfg GeminiConfig, logger *zap.Logger) *GeminiLLMClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiLLMClient{cfg: cfg, logger: logger.With(zap.String("component", "gemini"))}
}

// Invoke sends one generateContent request. It never retries.
func (c *GeminiLLMClient) Invoke(ctx context.Context, creds deps.CredentialSource, prompt string, params deps.GenerationParams) (*genai.GenerateContentResponse, error) {
	apiKey, err := creds.APIKey(ctx)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, &model.MissingCredentialError{}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    c.cfg.BaseURL,
			APIVersion: c.cfg.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(params.Temperature),
		TopP:            genai.Ptr(params.TopP),
		MaxOutputTokens: params.MaxOutputTokens,
	}

	c.logger.Debug("Sending generateContent",
		zap.String("model", c.cfg.Model),
		zap.Int("prompt_runes", len([]rune(prompt))),
		zap.Float32("temperature", params.Temperature))

	resp, err := client.Models.GenerateContent(ctx, c.cfg.Model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}, config)
	if err != nil {
		if upstream := asUpstreamError(err); upstream != nil {
			c.logger.Warn("Gemini returned an error",
				zap.Int("status", upstream.Status),
				zap.String("body", logging.Truncate(upstream.Body, 200)))
			return nil, upstream
		}
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	if blocked := checkBlocked(resp); blocked != nil {
		c.logger.Warn("Gemini output blocked", zap.String("reason", blocked.Reason))
		return nil, blocked
	}
	return resp, nil
}

func asUpstreamError(err error) *model.UpstreamError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &model.UpstreamError{Status: apiErr.Code, Body: apiErrorBody(apiErr)}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &model.UpstreamError{Status: apiErrPtr.Code, Body: apiErrorBody(*apiErrPtr)}
	}
	return nil
}

func apiErrorBody(e genai.APIError) string {
	if e.Status == "" {
		return e.Message
	}
	return e.Status + ": " + e.Message
}

var blockedFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReasonSafety:            true,
	genai.FinishReasonBlocklist:         true,
	genai.FinishReasonProhibitedContent: true,
	genai.FinishReasonSPII:              true,
}

func checkBlocked(resp *genai.GenerateContentResponse) *model.BlockedContentError {
	if resp == nil {
		return &model.BlockedContentError{Reason: "empty response"}
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return &model.BlockedContentError{Reason: string(resp.PromptFeedback.BlockReason)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return &model.BlockedContentError{Reason: "no candidate"}
	}
	if reason := resp.Candidates[0].FinishReason; blockedFinishReasons[reason] {
		return &model.BlockedContentError{Reason: string(reason)}
	}
	return nil
}
