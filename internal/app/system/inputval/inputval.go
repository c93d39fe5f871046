// Package inputval validates user input.
//
// Two styles live here:
//
//   - Field rules (rules.go): total functions from a raw string to a Check.
//     The application wizard composes these per field and re-runs them on
//     every change.
//   - Struct validation (this file): request DTOs tagged with `validate:"..."`
//     and `label:"..."`, checked in one call with user-facing messages.
//
// Example:
//
//	type filterInput struct {
//		Search string `validate:"max=200" label:"Search"`
//		Team   string `validate:"omitempty,oneof=individual team have_team" label:"Team preference"`
//	}
//	if result := inputval.Validate(in); result.HasErrors() {
//		renderWithError(result.First())
//	}
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed struct field.
type FieldError struct {
	Field   string // label (or Go field name when no label tag)
	Tag     string // failing rule, e.g. "required"
	Message string // user-facing sentence
}

// Result collects the errors from Validate.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if label := f.Tag.Get("label"); label != "" {
				return label
			}
			return f.Name
		})
		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return IsValidHTTPURL(fl.Field().String())
		})
		_ = v.RegisterValidation("appemail", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks a tagged struct and returns every failure in field order.
func Validate(input any) *Result {
	res := &Result{}
	err := engine().Struct(input)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return res
}

func messageFor(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "email", "appemail":
		return "A valid email address is required."
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "httpurl":
		return fmt.Sprintf("%s must be a valid http(s) URL.", label)
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
