// Package validation holds the input rules shared by the client (fast fail
// before any request) and the development API.
package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	internal_errors "github.com/itchan-dev/bbs/shared/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// required only rejects the empty string, forms also reject whitespace
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validator exposes the configured instance for callers with their own rules.
func Validator() *validator.Validate {
	return validate
}

// Struct checks s and converts the first failed rule into a ValidationError.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &internal_errors.ValidationError{Message: fallbackMessage}
	}
	fe := fieldErrs[0]
	return &internal_errors.ValidationError{
		Field:   strings.ToLower(fe.Field()),
		Message: messageFor(fe.StructNamespace(), fe.Tag()),
	}
}

// Email checks the email format on top of the struct rules.
func Email(email string) error {
	if err := validate.Var(email, "email"); err != nil {
		return &internal_errors.ValidationError{Field: "email", Message: messageFor("RegisterRequest.Email", "email")}
	}
	return nil
}

func messageFor(namespace, tag string) string {
	if msg, ok := messages[namespace+"."+tag]; ok {
		return msg
	}
	structName, _, _ := strings.Cut(namespace, ".")
	if msg, ok := messages[structName+".*."+tag]; ok {
		return msg
	}
	return fallbackMessage
}
