package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var nationalIdRgx = regexp.MustCompile(`^[0-9]{6,12}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("national_id", validateNationalId)

	return validator
}

func validateNationalId(fl validator.FieldLevel) bool {
	return nationalIdRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "national_id":
		return "must be a national id of 6 to 12 digits"
	default:
		return "is invalid"
	}
}
