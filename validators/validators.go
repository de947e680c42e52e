// Package validators wraps go-playground/validator for the per-domain
// request validators. Each domain package declares tagged request
// structs and mounts them as fiber middleware; the validated struct is
// stored in c.Locals for the handler.
package validators

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Check validates a tagged struct and returns per-field messages, or
// nil when the struct is valid.
func Check(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": "Invalid request body!"}
	}

	errors := make(map[string]string)
	for _, fe := range fieldErrs {
		errors[strings.ToLower(fe.Field())] = message(fe)
	}
	return errors
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "email":
		return "Must be a valid email address!"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long!", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long!", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s!", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s!", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s!", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s!", fe.Param())
	default:
		return "Invalid value!"
	}
}
