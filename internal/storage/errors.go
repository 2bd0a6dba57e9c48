package storage

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors. Callers classify with errors.Is, never by message.
var (
	// ErrValidation: a required field is missing or empty.
	ErrValidation = errors.New("please fill all required fields")

	// ErrDuplicateEmail: another stored student already uses the email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrNotFound: no student with the requested id.
	ErrNotFound = errors.New("student not found")
)

// ValidationError carries the individual field failures reported by
// the validator. errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Fields validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field())
	}
	return ErrValidation.Error() + ": " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
