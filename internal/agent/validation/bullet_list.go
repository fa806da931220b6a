package validation

import (
	"context"
	"regexp"
	"strings"
)

var bulletPrefix = regexp.MustCompile(`^\s*(?:[-*・•●■◆]|\d+[.)．）]|[①-⑳])\s*`)

// BulletListValidator turns bullet lines back into prose lines
type BulletListValidator struct{}

// NewBulletListValidator creates a new BulletListValidator
func NewBulletListValidator() *BulletListValidator {
	return &BulletListValidator{}
}

// Name returns the validator name
func (v *BulletListValidator) Name() string {
	return "BulletListValidator"
}

// Validate strips list markers from the start of each line
func (v *BulletListValidator) Validate(ctx context.Context, input ValidationInput) ValidationResult {
	lines := strings.Split(input.Remark, "\n")
	changed := false
	for i, line := range lines {
		if stripped := bulletPrefix.ReplaceAllString(line, ""); stripped != line {
			lines[i] = stripped
			changed = true
		}
	}
	if !changed {
		return OK()
	}
	return FailWithCorrection("remark formatted as a list", strings.Join(lines, "\n"))
}
