package common

import (
	"errors"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var payloadValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks the payload's validate tags and converts violations
// into an AppError carrying a field-to-rule detail map.
func ValidateStruct(payload any) error {
	err := payloadValidator.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewAppError("BAD_REQUEST", "invalid request payload", http.StatusBadRequest, err)
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}
	appErr := NewAppError("VALIDATION_ERROR", "invalid request payload", http.StatusBadRequest, err)
	appErr.Details = details
	return appErr
}
