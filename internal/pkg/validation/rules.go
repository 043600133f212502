// Package validation wraps go-playground/validator with the portal's custom
// rules and turns failures into apperrors validation errors.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

var (
	// USNPattern accepts university seat numbers such as 4PM21CS001.
	USNPattern = regexp.MustCompile(`^[0-9A-Z]{5,20}$`)

	PasswordMinLength = 8
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names so errors line up with request and document fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("usn", func(fl validator.FieldLevel) bool {
		return USNPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		return IsImageURL(fl.Field().String())
	})
	return v
}

// IsImageURL reports whether s is a site-relative path or an http(s) URL.
func IsImageURL(s string) bool {
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Struct validates v and returns an *apperrors.CustomError wrapping
// apperrors.ErrValidationFailed on failure.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	fields := make(map[string]string, len(fieldErrs))
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := FormatFieldError(fe)
		fields[fe.Field()] = msg
		msgs = append(msgs, msg)
	}
	return apperrors.NewValidationError(strings.Join(msgs, "; "), fields)
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "usn":
		return e.Field() + " must be an uppercase seat number such as 4PM21CS001"
	case "imageurl":
		return e.Field() + " must start with / or http"
	case "gtefield":
		return e.Field() + " must not be before " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
