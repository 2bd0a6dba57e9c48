package storage

import (
	"errors"
	"reflect"
	"strings"

	"github.com/aanand-mishra/student-portal/internal/types"
	"github.com/go-playground/validator/v10"
)

// validate is shared by every store. A *validator.Validate caches struct
// metadata after the first call and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name ("firstName") rather than the Go
	// name ("FirstName") so messages line up with the form the user sees.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// ValidateStudent checks the required fields of s.
// It returns nil or a *ValidationError.
func ValidateStudent(s types.Student) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return &ValidationError{Fields: fieldErrs}
	}
	// InvalidValidationError only happens for non-struct input.
	return &ValidationError{}
}
