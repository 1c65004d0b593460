// Package validation checks request inputs against their `validate` struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/and161185/nhh/internal/errs"
)

var officialEmail = regexp.MustCompile(`(?i)^.+@navy\.mil\.ng$`)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	must(validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(validate.RegisterValidation("navymail", func(fl validator.FieldLevel) bool {
		return officialEmail.MatchString(strings.TrimSpace(fl.Field().String()))
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct validates s. Every violated rule is reported, wrapped in errs.ErrValidation.
func Struct(s any) error {
	return wrap(validate.Struct(s), "")
}

// Var validates a single value named name against tag.
func Var(name string, v any, tag string) error {
	return wrap(validate.Var(v, tag), name)
}

func wrap(err error, name string) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("invalid validation: %w", err)
	}
	problems := make([]string, 0, len(ves))
	for _, fe := range ves {
		field := fe.Field()
		if field == "" {
			field = name
		}
		problems = append(problems, describe(field, fe))
	}
	return fmt.Errorf("%w: %s", errs.ErrValidation, strings.Join(problems, "; "))
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "navymail":
		return field + " must be an @navy.mil.ng address"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must not be below %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}
