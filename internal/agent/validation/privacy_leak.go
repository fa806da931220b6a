package validation

import (
	"context"

	"shoken-assist/backend/internal/agent/sanitize"
)

// PrivacyLeakValidator re-redacts contact details the model may have produced
type PrivacyLeakValidator struct{}

// NewPrivacyLeakValidator creates a new PrivacyLeakValidator
func NewPrivacyLeakValidator() *PrivacyLeakValidator {
	return &PrivacyLeakValidator{}
}

// Name returns the validator name
func (v *PrivacyLeakValidator) Name() string {
	return "PrivacyLeakValidator"
}

// Validate applies the contact rules of the sanitizer to the remark
func (v *PrivacyLeakValidator) Validate(ctx context.Context, input ValidationInput) ValidationResult {
	redacted := sanitize.Contacts(input.Remark)
	if redacted == input.Remark {
		return OK()
	}
	return FailWithCorrection("contact detail in remark", redacted)
}
