package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrStorage = errors.New("storage error")

	ErrInternalServer = errors.New("internal server error")

	ErrUnauthorized = errors.New("unauthorized")
)

// FieldErrors collects every message reported for a form field, keyed by the
// field's wire name.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) HasErrors() bool {
	return len(f) > 0
}

func (f FieldErrors) String() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(f[field], "; ")))
	}
	return strings.Join(parts, ", ")
}

type ValidationError struct {
	Field   string
	Message string
	Fields  FieldErrors
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation failed: %s (%s)", e.Message, e.Fields)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

// NewFormValidationError reports a rejected form. message is the summary shown
// to the caller and fields carries the per-field messages.
func NewFormValidationError(message string, fields FieldErrors) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Message: message, Fields: fields})
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}

func WrapStorageError(cause error, message string) error {
	return &AppError{
		Code:    "STORAGE_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrStorage, cause),
	}
}
