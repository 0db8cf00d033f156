package utils

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations registers custom validation rules
func RegisterCustomValidations(v *validator.Validate) {
	v.RegisterValidation("otpcode", validateOTPCode)
}

// validateOTPCode checks for exactly six ASCII digits.
func validateOTPCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// TranslateValidationError flattens validator errors into one
// client-facing message.
func TranslateValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "email":
			messages = append(messages, "invalid email format")
		case "min":
			messages = append(messages, field+" must be at least "+fe.Param())
		case "max":
			messages = append(messages, field+" must be at most "+fe.Param())
		case "len":
			messages = append(messages, field+" must be exactly "+fe.Param()+" characters")
		case "gte":
			messages = append(messages, field+" must be greater than or equal to "+fe.Param())
		case "oneof":
			messages = append(messages, field+" must be one of: "+fe.Param())
		case "otpcode":
			messages = append(messages, field+" must be a 6-digit code")
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, ", ")
}
