package prompt

import (
	"fmt"
	"strings"

	"shoken-assist/backend/internal/model"
)

// Builder constructs the instructions sent to the generation model.
// It is stateless and deterministic.
type Builder struct{}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{}
}

// RemarkOptions holds the optional inputs of a remark instruction
type RemarkOptions struct {
	Profile   *model.StyleProfile
	CharCount *int
	Grade     model.GradeLevel
}

// BuildAnalysisInstruction numbers the samples, fences them and appends the
// extraction task. It needs at least model.MinStyleSamples samples.
func (b *Builder) BuildAnalysisInstruction(samples []string) (string, error) {
	if len(samples) < model.MinStyleSamples {
		return "", &model.InsufficientInputError{Got: len(samples), Want: model.MinStyleSamples}
	}

	numbered := make([]string, len(samples))
	for i, s := range samples {
		numbered[i] = fmt.Sprintf("【サンプル%d】\n%s", i+1, s)
	}

	var sb strings.Builder
	sb.WriteString(AnalysisRole)
	sb.WriteString("\n\n")
	sb.WriteString(SampleFenceStart)
	sb.WriteString("\n")
	sb.WriteString(strings.Join(numbered, "\n\n"))
	sb.WriteString("\n")
	sb.WriteString(SampleFenceEnd)
	sb.WriteString("\n\n")
	sb.WriteString(AnalysisTask)
	return sb.String(), nil
}

// BuildRemarkInstruction assembles role, audience, style, goal, constraints,
// memos and output format, in that order. memos must already be sanitized.
func (b *Builder) BuildRemarkInstruction(memos []string, goal model.GoalCode, opts RemarkOptions) (string, error) {
	if len(memos) == 0 {
		return "", &model.EmptyInputError{Field: "memo_lines"}
	}

	goalSpec := GoalSpecFor(goal)

	lines := []string{
		RemarkRole,
		"",
		SectionAudience,
		"- " + BuildAudienceInstruction(opts.Grade),
		"",
		SectionStyle,
		"- " + FormatStyleGuidance(opts.Profile),
		"",
		SectionGoal,
		"- " + goalSpec.Instruction,
		"",
		SectionConstraints,
	}
	for _, c := range Constraints {
		lines = append(lines, "- "+c)
	}

	lines = append(lines, "", SectionMemos)
	for _, m := range memos {
		lines = append(lines, "- "+m)
	}

	lines = append(lines,
		"",
		SectionFormat,
		"- "+FormatProse,
		"- "+fmt.Sprintf(FormatLength, LengthDirective(goalSpec, opts.CharCount)),
		"- "+ClosingRequirement,
	)

	return strings.Join(lines, "\n"), nil
}
