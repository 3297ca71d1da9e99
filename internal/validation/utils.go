package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Nivhaham/FastApiBasics/internal/errs"
	"github.com/go-playground/validator/v10"
)

// validate is shared by every request. validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Check validates a single value against validator rules and returns the
// first failure translated for field, or nil.
//
// Empty rules always pass.
func Check(field string, value any, rules string) *errs.FieldError {
	if rules == "" {
		return nil
	}

	err := validate.Var(value, rules)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		// InvalidValidationError: the rules themselves are malformed.
		return &errs.FieldError{Field: field, Error: err.Error()}
	}

	return &errs.FieldError{Field: field, Error: Message(validationErrors[0])}
}

// Struct validates v using its `validate` struct tags and returns every
// failing field, keyed by the lower-cased field name.
func Struct(v any) []errs.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []errs.FieldError{{Field: "", Error: err.Error()}}
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: strings.ToLower(fe.Namespace()),
			Error: Message(fe),
		})
	}
	return fieldErrors
}

// Message converts a validator failure into a user-facing message.
func Message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "min":
		// min means length for strings and slices, value for numbers.
		if isLengthKind(err.Kind()) {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max":
		if isLengthKind(err.Kind()) {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())

	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", err.Param())

	case "lt":
		return fmt.Sprintf("must be less than %s", err.Param())

	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", err.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "email":
		return "must be a valid email address"

	case "url", "http_url":
		return "must be a valid URL"

	case "uuid":
		return "must be a valid UUID"

	case "dive":
		return "some items are invalid"

	default:
		if err.Param() != "" {
			return fmt.Sprintf("failed %s:%s", err.Tag(), err.Param())
		}
		return fmt.Sprintf("failed %s", err.Tag())
	}
}

func isLengthKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
