package model

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field ranges. Memo emptiness is checked after sanitization by the caller.
func (r *RemarkRequest) Validate() error {
	err := getValidator().Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &InvalidInputError{
			Field:   fe.Field(),
			Message: describeRule(fe),
		}
	}
	return &InvalidInputError{Field: "request", Message: err.Error()}
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s以上で指定してください", fe.Param())
	case "max":
		return fmt.Sprintf("%s以下で指定してください", fe.Param())
	default:
		return fe.Tag()
	}
}
