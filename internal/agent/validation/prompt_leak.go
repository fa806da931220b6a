package validation

import (
	"context"
	"strings"

	"shoken-assist/backend/internal/agent/prompt"
)

// PromptLeakValidator drops lines that echo the instruction's section headers
// or sample fences back into the remark.
type PromptLeakValidator struct {
	markers []string
}

// NewPromptLeakValidator creates a new PromptLeakValidator
func NewPromptLeakValidator() *PromptLeakValidator {
	markers := append([]string{}, prompt.SectionHeaders...)
	markers = append(markers, prompt.SampleFenceStart, prompt.SampleFenceEnd)
	return &PromptLeakValidator{markers: markers}
}

// Name returns the validator name
func (v *PromptLeakValidator) Name() string {
	return "PromptLeakValidator"
}

// Validate removes every line containing an instruction marker
func (v *PromptLeakValidator) Validate(ctx context.Context, input ValidationInput) ValidationResult {
	lines := strings.Split(input.Remark, "\n")
	kept := make([]string, 0, len(lines))
	leaked := false
	for _, line := range lines {
		if v.containsMarker(line) {
			leaked = true
			continue
		}
		kept = append(kept, line)
	}
	if !leaked {
		return OK()
	}

	corrected := strings.TrimSpace(strings.Join(kept, "\n"))
	if corrected == "" {
		return Reject("remark consisted only of instruction markers")
	}
	return FailWithCorrection("instruction section marker echoed", corrected)
}

func (v *PromptLeakValidator) containsMarker(line string) bool {
	for _, m := range v.markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}
