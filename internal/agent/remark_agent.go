package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shoken-assist/backend/internal/agent/deps"
	"shoken-assist/backend/internal/agent/prompt"
	"shoken-assist/backend/internal/agent/response"
	"shoken-assist/backend/internal/agent/sanitize"
	"shoken-assist/backend/internal/agent/validation"
	"shoken-assist/backend/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyOutput is the cause of a MalformedResponseError when the model returned no text
var ErrEmptyOutput = errors.New("model returned no text")

// ErrRemarkRejected is the cause of a MalformedResponseError when the output
// checks found nothing usable in the model's text
var ErrRemarkRejected = errors.New("remark rejected by output checks")

// RemarkAgent runs the two user-facing flows: style analysis and remark generation.
// Each call makes at most one generation request and holds no state between calls.
type RemarkAgent struct {
	llm           deps.LLMClient
	promptBuilder *prompt.Builder
	pipeline      *validation.Pipeline
	logger        *zap.Logger
	now           func() time.Time
}

// NewRemarkAgent creates a RemarkAgent around an LLM client
func NewRemarkAgent(llm deps.LLMClient, logger *zap.Logger) *RemarkAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemarkAgent{
		llm:           llm,
		promptBuilder: prompt.NewBuilder(),
		pipeline:      validation.NewDefaultPipeline(logger),
		logger:        logger.With(zap.String("component", "agent")),
		now:           time.Now,
	}
}

// InitState is what a client needs to render its first screen
type InitState struct {
	APIKeySaved         bool                       `json:"api_key_saved"`
	StyleProfileSummary *model.StyleProfileSummary `json:"style_profile_summary"`
	SampleCount         int                        `json:"sample_count"`
}

// InitState reports the user's saved settings
func (a *RemarkAgent) InitState(ctx context.Context, uc *UserContext) (*InitState, error) {
	saved, err := uc.HasAPIKey(ctx)
	if err != nil {
		return nil, err
	}
	state := &InitState{APIKeySaved: saved}

	profile, err := uc.StyleProfile(ctx)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		summary := a.summarize(profile)
		state.StyleProfileSummary = &summary
	}

	samples, err := uc.Samples(ctx)
	if err != nil {
		return nil, err
	}
	state.SampleCount = len(samples)
	return state, nil
}

// AnalyzeStyle infers a style profile from samples and stores it for the user.
// A nil samples slice analyzes the user's stored collection instead.
func (a *RemarkAgent) AnalyzeStyle(ctx context.Context, uc *UserContext, samples []string) (*model.StyleProfileSummary, error) {
	if samples == nil {
		stored, err := uc.Samples(ctx)
		if err != nil {
			return nil, err
		}
		samples = stored
	}

	cleaned := make([]string, 0, len(samples))
	for _, s := range CleanSamples(samples) {
		if s = sanitize.Privacy(sanitize.Delimiters(s)); s != "" {
			cleaned = append(cleaned, s)
		}
	}

	instruction, err := a.promptBuilder.BuildAnalysisInstruction(cleaned)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Analyzing style",
		zap.String("user", uc.UserID),
		zap.Int("samples", len(cleaned)))

	resp, err := a.llm.Invoke(ctx, uc, instruction, deps.AnalysisParams)
	if err != nil {
		return nil, err
	}

	profile, err := response.DecodeStyleProfile(response.ExtractText(resp))
	if err != nil {
		a.logger.Warn("Style analysis output rejected", zap.String("user", uc.UserID), zap.Error(err))
		return nil, err
	}
	profile.UpdatedAt = a.now()

	if err := uc.SaveStyleProfile(ctx, profile); err != nil {
		return nil, err
	}

	summary := a.summarize(profile)
	return &summary, nil
}

// ImportStyleProfile replaces the stored profile with a hand-edited one
func (a *RemarkAgent) ImportStyleProfile(ctx context.Context, uc *UserContext, profile *model.StyleProfile) (*model.StyleProfileSummary, error) {
	if !profile.Valid() {
		return nil, &model.ProfileLoadError{Missing: missingProfileFields(profile)}
	}
	p := profile.WithDefaults()
	p.UpdatedAt = a.now()
	if err := uc.SaveStyleProfile(ctx, &p); err != nil {
		return nil, err
	}
	summary := a.summarize(&p)
	return &summary, nil
}

// GenerateRemark writes one remark from the request's memo lines
func (a *RemarkAgent) GenerateRemark(ctx context.Context, uc *UserContext, req model.RemarkRequest) (*model.GeneratedRemark, error) {
	req.MemoLines = dropBlank(req.MemoLines)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var memos []string
	for _, line := range req.MemoLines {
		memos = append(memos, sanitize.Lines(sanitize.Delimiters(line))...)
	}
	if len(memos) == 0 {
		return nil, &model.EmptyInputError{Field: "memo_lines"}
	}

	profile, err := uc.StyleProfile(ctx)
	if err != nil {
		return nil, err
	}

	instruction, err := a.promptBuilder.BuildRemarkInstruction(memos, req.GoalCode, prompt.RemarkOptions{
		Profile:   profile,
		CharCount: req.CharCount,
		Grade:     req.GradeLevel,
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("Generating remark",
		zap.String("user", uc.UserID),
		zap.Int("memos", len(memos)),
		zap.String("goal", string(req.GoalCode)),
		zap.String("grade", string(req.GradeLevel)),
		zap.Bool("styled", profile != nil))

	resp, err := a.llm.Invoke(ctx, uc, instruction, deps.RemarkParams)
	if err != nil {
		return nil, err
	}

	text := response.Normalize(response.ExtractText(resp))
	if text == "" {
		return nil, &model.MalformedResponseError{Operation: model.OperationGenerate, Cause: ErrEmptyOutput}
	}

	minChars, maxChars := prompt.TargetRange(prompt.GoalSpecFor(req.GoalCode), req.CharCount)
	outcome := a.pipeline.Validate(ctx, validation.ValidationInput{
		Remark:   text,
		Memos:    memos,
		MinChars: minChars,
		MaxChars: maxChars,
	})
	if outcome.Rejected {
		a.logger.Warn("Remark rejected by output checks",
			zap.String("user", uc.UserID),
			zap.String("reason", outcome.Reason))
		return nil, &model.MalformedResponseError{
			Operation: model.OperationGenerate,
			Cause:     fmt.Errorf("%w: %s", ErrRemarkRejected, outcome.Reason),
		}
	}

	return &model.GeneratedRemark{
		ID:          uuid.NewString(),
		Text:        outcome.Remark,
		GoalCode:    req.GoalCode,
		Destination: req.Destination,
		WrittenTo:   req.Destination.String(),
		Warnings:    outcome.Warnings,
		GeneratedAt: a.now(),
	}, nil
}

// summarize stamps the summary with the profile's own update time when it has one
func (a *RemarkAgent) summarize(p *model.StyleProfile) model.StyleProfileSummary {
	stamp := p.UpdatedAt
	if stamp.IsZero() {
		stamp = a.now()
	}
	return p.Summarize(stamp)
}

func dropBlank(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return kept
}

func missingProfileFields(p *model.StyleProfile) []string {
	if p == nil {
		return []string{"sentence_structure", "overall_tone"}
	}
	var missing []string
	if p.SentenceStructure == "" {
		missing = append(missing, "sentence_structure")
	}
	if p.OverallTone == "" {
		missing = append(missing, "overall_tone")
	}
	return missing
}
