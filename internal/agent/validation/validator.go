package validation

import (
	"context"
)

// ValidationInput contains all data needed for validation
type ValidationInput struct {
	Remark string
	// Memos are the sanitized memo lines the remark was generated from
	Memos    []string
	MinChars int
	MaxChars int
}

// ValidationResult is the outcome of a validation
type ValidationResult struct {
	IsValid   bool
	Reason    string
	Corrected string // Non-empty if correction is available; empty means the remark is unusable
	Warning   string // Shown to the user; the remark is kept as is
}

// OK returns a successful validation result
func OK() ValidationResult {
	return ValidationResult{IsValid: true}
}

// Warn returns a passing result that still surfaces a warning
func Warn(warning string) ValidationResult {
	return ValidationResult{IsValid: true, Warning: warning}
}

// Reject returns a failed result that no local correction can repair
func Reject(reason string) ValidationResult {
	return ValidationResult{IsValid: false, Reason: reason}
}

// FailWithCorrection returns a failed validation result with a corrected remark
func FailWithCorrection(reason, corrected string) ValidationResult {
	return ValidationResult{IsValid: false, Reason: reason, Corrected: corrected}
}

// Validator is the interface for output checks
type Validator interface {
	// Name returns the validator's name for logging
	Name() string
	// Validate checks the remark and returns a validation result
	Validate(ctx context.Context, input ValidationInput) ValidationResult
}
