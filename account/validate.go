package account

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-route-finder/internal/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError maps form field names to the message shown next to them.
type ValidationError struct {
	Fields map[string]string
	order  []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.order))
	for _, field := range e.order {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return errors.ErrInvalidInput
}

// First returns the message of the first failing field in form order.
func (e *ValidationError) First() string {
	if len(e.order) == 0 {
		return ""
	}
	return e.Fields[e.order[0]]
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			if name := field.Tag.Get("form"); name != "" && name != "-" {
				return name
			}
			return field.Name
		})
		_ = validate.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return ValidatePasswordStrength(fl.Field().String()) == nil
		})
		_ = validate.RegisterValidation("totp", func(fl validator.FieldLevel) bool {
			return IsTOTPCode(fl.Field().String())
		})
	})
	return validate
}

// Validate checks a form. It returns nil or a *ValidationError, which matches
// errors.ErrInvalidInput.
func Validate(form any) error {
	err := getValidator().Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("[account Validate] %w: %w", errors.ErrInvalidInput, err)
	}

	ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		if _, seen := ve.Fields[fe.Field()]; seen {
			continue
		}
		ve.Fields[fe.Field()] = message(fe)
		ve.order = append(ve.order, fe.Field())
	}
	return ve
}

func message(fe validator.FieldError) string {
	label := Label(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Enter a valid email address"
	case "eqfield":
		return "Passwords do not match"
	case "nefield":
		return "New password must be different from the current password"
	case "strongpassword":
		if err := ValidatePasswordStrength(fmt.Sprint(fe.Value())); err != nil {
			msg := err.Error()
			return strings.ToUpper(msg[:1]) + msg[1:]
		}
		return "Password is too weak"
	case "totp":
		return "Enter the 6 digit code from your authenticator app"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// Label turns a form field name into the text shown to users.
func Label(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
