package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var ethAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// IsEthAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsEthAddress(s string) bool {
	return ethAddressRe.MatchString(s)
}

// RegisterValidators installs the custom tags on gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	if err := v.RegisterValidation("eth_addr", func(fl validator.FieldLevel) bool {
		return IsEthAddress(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return weekdays[strings.ToLower(fl.Field().String())]
	}); err != nil {
		return err
	}
	return v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.After(time.Now())
	})
}

// FieldError is one entry in a validation failure body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationDetails flattens binding errors into per-field messages.
func ValidationDetails(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

// BindError builds the 400 returned for a malformed request body or query.
func BindError(err error) *AppError {
	return ErrBadRequest("Invalid request").WithDetails(ValidationDetails(err))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "eth_addr":
		return "must be a 0x-prefixed Ethereum address"
	case "future":
		return "must be in the future"
	case "gtfield":
		return fmt.Sprintf("must be after %s", toSnake(fe.Param()))
	case "ltefield":
		return fmt.Sprintf("must not exceed %s", toSnake(fe.Param()))
	case "eq":
		return fmt.Sprintf("must be %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
