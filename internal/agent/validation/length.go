package validation

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Remarks shorter than minChars*lengthLowerFactor or longer than
// maxChars*lengthUpperFactor get a warning.
const (
	lengthLowerFactor = 0.5
	lengthUpperFactor = 1.5
)

// LengthValidator warns when the remark is far from the requested length.
// It never rewrites the remark.
type LengthValidator struct{}

// NewLengthValidator creates a new LengthValidator
func NewLengthValidator() *LengthValidator {
	return &LengthValidator{}
}

// Name returns the validator name
func (v *LengthValidator) Name() string {
	return "LengthValidator"
}

// Validate compares the character count, ignoring line breaks, with the target range
func (v *LengthValidator) Validate(ctx context.Context, input ValidationInput) ValidationResult {
	if input.MinChars <= 0 || input.MaxChars <= 0 {
		return OK()
	}
	n := utf8.RuneCountInString(strings.ReplaceAll(input.Remark, "\n", ""))
	switch {
	case float64(n) < float64(input.MinChars)*lengthLowerFactor:
		return Warn(fmt.Sprintf("生成された所見が短すぎます（%d字、目安%d〜%d字）。", n, input.MinChars, input.MaxChars))
	case float64(n) > float64(input.MaxChars)*lengthUpperFactor:
		return Warn(fmt.Sprintf("生成された所見が長すぎます（%d字、目安%d〜%d字）。", n, input.MinChars, input.MaxChars))
	}
	return OK()
}
