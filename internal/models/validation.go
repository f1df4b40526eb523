package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phil-crm/phil-console/internal/gwerrors"
)

var validate = newValidator()

type enum interface {
	Valid() bool
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	// enum accepts only the values listed for the field's type
	err := v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(enum)
		return ok && value.Valid()
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks the validate tags of a request payload. The error is a validation APIError
// listing every offending field.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return gwerrors.NewAPIError(gwerrors.KindValidation, 0, err.Error(), err)
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	return gwerrors.NewAPIError(gwerrors.KindValidation, 0, strings.Join(messages, "; "), err)
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "enum":
		return fmt.Sprintf("%s has an unknown value %q", field, e.Value())
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
