// Package validation checks request payloads against their struct tags and
// turns failures into per-field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "brightscope/pkg/errors"
)

// DefaultMessage is the top-level message of a failed validation.
const DefaultMessage = "Please correct the errors below."

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Struct validates payload and returns a VALIDATION_ERROR listing every failing field.
func Struct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Internal("validation failed", err)
	}
	fields := apperrors.FieldErrors{}
	for _, fe := range verrs {
		fields.Add(fe.Field(), message(fe))
	}
	return apperrors.Validation(DefaultMessage, fields)
}

// Var reports whether a single value satisfies a validator tag.
func Var(value any, tag string) bool {
	return validate.Var(value, tag) == nil
}

// Merge folds extra field messages into a validation error produced by Struct.
func Merge(err error, extra apperrors.FieldErrors) error {
	if !extra.Any() {
		return err
	}
	if err == nil {
		return apperrors.Validation(DefaultMessage, extra)
	}
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.ErrCodeValidation {
		return err
	}
	for field, msgs := range extra {
		for _, m := range msgs {
			appErr.Fields.Add(field, m)
		}
	}
	return appErr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case "eqfield":
		return "Passwords don't match."
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
