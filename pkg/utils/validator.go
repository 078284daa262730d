package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate   *validator.Validate
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]{6,20}$`)
)

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("phone", validatePhone)
	_ = validate.RegisterValidation("strong_password", validateStrongPassword)
	_ = validate.RegisterValidation("email_format", validateEmailFormat)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FieldErrors flattens validator errors into json-field -> message. It returns
// nil when err did not come from the validator.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email", "email_format":
		return "Invalid email format"
	case "strong_password":
		return "Password must be at least 8 characters and include uppercase, lowercase, and numbers"
	case "phone":
		return "Invalid phone number"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	default:
		return "Invalid value"
	}
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

func validateEmailFormat(fl validator.FieldLevel) bool {
	return IsValidEmail(fl.Field().String())
}
