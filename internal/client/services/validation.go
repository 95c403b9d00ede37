package services

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists local form problems per field. Field names are the
// JSON names the server uses, so both kinds of field errors render alike.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", n, strings.Join(e.Fields[n], ", ")))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateForm runs struct tag validation and converts the result into a
// *ValidationError.
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string][]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = append(out.Fields[fe.Field()], message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", humanize(fe.Field()))
	case "number", "numeric":
		return fmt.Sprintf("The %s field must contain digits only.", humanize(fe.Field()))
	case "len":
		return fmt.Sprintf("The %s field must be %s characters.", humanize(fe.Field()), fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", humanize(fe.Field()))
	default:
		return fmt.Sprintf("The %s field is invalid.", humanize(fe.Field()))
	}
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
