package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"BOOKWORM_BACK-END/internal/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldRule is the message reported when Field fails any rule other than required.
type FieldRule struct {
	Field   string
	Message string
}

// ValidationMessages describes how an endpoint reports invalid input.
// A missing field always wins; otherwise Rules are consulted in order.
type ValidationMessages struct {
	Required string
	Rules    []FieldRule
}

// ValidateStruct checks v's validate tags and returns an apperror.Validation carrying
// the endpoint message for the first failure.
func ValidateStruct(v any, msgs ValidationMessages) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.Validation(msgs.Required)
	}

	failed := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return apperror.Validation(msgs.Required)
		}
		failed[fe.Field()] = true
	}

	for _, rule := range msgs.Rules {
		if failed[rule.Field] {
			return apperror.Validation(rule.Message)
		}
	}
	return apperror.Validation(msgs.Required)
}
