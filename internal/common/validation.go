package common

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
}

// Validator collects field-level errors across a payload.
type Validator struct {
	errors []FieldError
}

func NewValidator() *Validator {
	return &Validator{errors: make([]FieldError, 0)}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value interface{}, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Error returns the collected failures as a single error wrapping
// ErrValidation, or nil when everything passed.
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	msgs := make([]string, 0, len(v.errors))
	for _, err := range v.errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value interface{}) *FieldError

// Required rejects nil, empty, and whitespace-only string values.
func Required(fieldName string, value interface{}) *FieldError {
	if value == nil {
		return &FieldError{Field: fieldName, Value: value, Message: "is required"}
	}
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return &FieldError{Field: fieldName, Value: value, Message: "is required"}
		}
	case *string:
		if v == nil || strings.TrimSpace(*v) == "" {
			return &FieldError{Field: fieldName, Value: value, Message: "is required"}
		}
	}
	return nil
}

// MaxLength bounds string values at max runes.
func MaxLength(max int) ValidationRule {
	return func(fieldName string, value interface{}) *FieldError {
		str, ok := value.(string)
		if !ok {
			if p, ok := value.(*string); ok && p != nil {
				str = *p
			} else {
				return nil
			}
		}
		if utf8.RuneCountInString(str) > max {
			return &FieldError{
				Field:   fieldName,
				Value:   value,
				Message: fmt.Sprintf("must be at most %d characters", max),
			}
		}
		return nil
	}
}

// NonZeroTime rejects the zero instant for required dates.
func NonZeroTime(fieldName string, value interface{}) *FieldError {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return &FieldError{Field: fieldName, Value: value, Message: "is required"}
		}
	case *time.Time:
		if v != nil && v.IsZero() {
			return &FieldError{Field: fieldName, Value: value, Message: "is required"}
		}
	}
	return nil
}

// UUIDString requires a parseable UUID.
func UUIDString(fieldName string, value interface{}) *FieldError {
	str, ok := value.(string)
	if !ok {
		return &FieldError{Field: fieldName, Value: value, Message: "must be a string"}
	}
	if _, err := uuid.Parse(str); err != nil {
		return &FieldError{Field: fieldName, Value: value, Message: "must be a valid UUID"}
	}
	return nil
}
