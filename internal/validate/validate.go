// Package validate wraps go-playground/validator with the engine's custom
// rules and turns violations into common.ErrValidation errors with a
// readable message.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/rfpmonitor/internal/common"
	"github.com/go-playground/validator/v10"
)

// emailShape accepts local@domain.tld with no whitespace and a single @.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.String:
			return strings.TrimSpace(f.String()) != ""
		case reflect.Slice:
			return f.Len() > 0
		}
		return true
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name, ok := fld.Tag.Lookup("label"); ok {
			return name
		}
		return strings.ToLower(fld.Name)
	})
	return v
}

// EmailShape reports whether s looks like an email address.
func EmailShape(s string) bool {
	return emailShape.MatchString(s)
}

// Struct validates v. The returned error wraps common.ErrValidation.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return fmt.Errorf("%w: %s", common.ErrValidation, describe(verrs))
}

func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required", "notblank":
			msgs = append(msgs, fmt.Sprintf("%s is required", err.Field()))
		case "emailshape":
			msgs = append(msgs, fmt.Sprintf("%s is not a valid email address", err.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s is too long", err.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is not valid", err.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
