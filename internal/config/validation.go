package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
		}
	}
	return nil
}
