package library

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isodatetime", func(fl validator.FieldLevel) bool {
		return strfmt.IsDateTime(fl.Field().String())
	})
	return v
}

// validateModel runs struct validation and reports the first failure as a ValidationError.
func validateModel(entity string, model any) error {
	err := validate.Struct(model)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Entity: entity, Field: fe.Field(), Message: describe(fe)}
	}
	return fmt.Errorf("validate %s: %w", entity, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "isodatetime":
		return "must be an ISO 8601 date-time"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// NormalizeDateTime rewrites an ISO 8601 date-time as UTC with millisecond precision,
// e.g. "1975-02-15T11:10:00+01:00" becomes "1975-02-15T10:10:00.000Z".
func NormalizeDateTime(s string) (string, error) {
	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not an ISO 8601 date-time", ErrValidation, s)
	}
	return time.Time(dt).UTC().Format(strfmt.RFC3339Millis), nil
}

func normalizeOrKeep(s string) string {
	if n, err := NormalizeDateTime(s); err == nil {
		return n
	}
	return s
}
