package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error marks input that failed validation, so handlers can answer with a
// client error instead of a server error.
type Error struct{ msg string }

func (e *Error) Error() string { return e.msg }

// Errorf builds a validation Error with a formatted message.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report field names as they appear on the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// Struct checks the tagged fields of v and reports every failure in plain
// words as a single *Error.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describe(fe))
	}
	return &Error{msg: strings.Join(parts, "; ")}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
