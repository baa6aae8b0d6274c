package api

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"poster-commerce/internal/domain/model"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries per-field messages keyed by the JSON field name.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("field '%s': %s", f, e.Errors[f]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator wraps go-playground/validator with the shop's custom rules.
type Validator struct {
	validate *validator.Validate
}

var mobileRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}
	mustRegister("mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister("order_status", func(fl validator.FieldLevel) bool {
		_, err := model.ParseOrderStatus(fl.Field().String())
		return err == nil
	})
	mustRegister("poster_size", func(fl validator.FieldLevel) bool {
		_, err := model.ParsePosterSize(fl.Field().String())
		return err == nil
	})
	mustRegister("plan_duration", func(fl validator.FieldLevel) bool {
		_, err := model.ParsePlanDuration(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Validate returns *ValidationError when i breaks a rule.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := make(map[string]string, len(ves))
	for _, fe := range ves {
		out[fe.Field()] = message(fe)
	}
	return &ValidationError{Errors: out}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "mobile":
		return "Must be a valid mobile number"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must be at least %s characters/items long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "order_status":
		return "Must be one of: Pending, Completed, Shipped, Delivered, Cancelled"
	case "poster_size":
		return "Must be one of: A3, A4, A5, Custom"
	case "plan_duration":
		return "Must look like '30 Days', '1 Month' or '1 Year'"
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}
