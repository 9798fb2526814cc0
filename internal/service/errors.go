package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error kinds. Handlers map these to HTTP status codes.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Error carries a client-safe message alongside its kind.
type Error struct {
	Kind    error
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) *Error {
	return newError(ErrValidation, format, args...)
}

func notFoundError(format string, args ...interface{}) *Error {
	return newError(ErrNotFound, format, args...)
}

// NewValidator returns a validator that reports json field names.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(field.Name)
		}
		return name
	})
	return validate
}

// translateValidation converts validator output into an *Error with one message per field.
func translateValidation(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	details := make(map[string]string, len(validationErrors))
	message := ""
	for _, fieldErr := range validationErrors {
		field := fieldErr.Field()
		text := describeFieldError(fieldErr)
		if _, exists := details[field]; !exists {
			details[field] = text
		}
		if message == "" {
			message = field + " " + text
		}
	}

	return &Error{Kind: ErrValidation, Message: message, Details: details}
}

func describeFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
		}
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
		}
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fieldErr.Param(), " ", ", ")
	default:
		return "is invalid"
	}
}
