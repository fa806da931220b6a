package validation

import (
	"context"

	"go.uber.org/zap"
)

// Outcome is the remark after every validator has run. Rejected is set when
// a validator failed without a correction; Remark is then empty.
type Outcome struct {
	Remark   string
	Warnings []string
	Rejected bool
	Reason   string
}

// Pipeline runs multiple validators in sequence. Corrections are applied
// locally and later validators see the corrected remark.
type Pipeline struct {
	validators []Validator
	logger     *zap.Logger
}

// NewPipeline creates a new validation pipeline
func NewPipeline(validators []Validator, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		validators: validators,
		logger:     logger.With(zap.String("component", "pipeline")),
	}
}

// NewDefaultPipeline wires the standard output checks
func NewDefaultPipeline(logger *zap.Logger) *Pipeline {
	return NewPipeline([]Validator{
		NewPromptLeakValidator(),
		NewPrivacyLeakValidator(),
		NewBulletListValidator(),
		NewMemoEchoValidator(),
		NewLengthValidator(),
	}, logger)
}

// Validate runs all validators and returns the final (possibly corrected) remark
func (p *Pipeline) Validate(ctx context.Context, input ValidationInput) Outcome {
	p.logger.Debug("Starting validation", zap.Int("remark_runes", len([]rune(input.Remark))))

	out := Outcome{Remark: input.Remark, Warnings: []string{}}
	for _, v := range p.validators {
		input.Remark = out.Remark
		result := v.Validate(ctx, input)

		if result.Warning != "" {
			out.Warnings = append(out.Warnings, result.Warning)
		}
		if result.IsValid {
			p.logger.Debug("Validator passed", zap.String("validator", v.Name()))
			continue
		}

		p.logger.Info("Validator failed",
			zap.String("validator", v.Name()),
			zap.String("reason", result.Reason))

		if result.Corrected == "" {
			return Outcome{Warnings: out.Warnings, Rejected: true, Reason: result.Reason}
		}
		p.logger.Debug("Using corrected remark",
			zap.String("validator", v.Name()),
			zap.Int("corrected_runes", len([]rune(result.Corrected))))
		out.Remark = result.Corrected
	}
	return out
}
