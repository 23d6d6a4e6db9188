package model

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Message
		if fe.Field != "" {
			parts[i] = fe.Field + ": " + fe.Message
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// RequireFields checks that every path (gjson syntax, e.g. "config" or
// "config.actions") is present and non-null in the JSON document body.
// It does not decode the document; callers are expected to have rejected
// malformed JSON already. Returns a *ValidationError or nil.
func RequireFields(body []byte, paths ...string) error {
	var ve ValidationError
	for _, p := range paths {
		res := gjson.GetBytes(body, p)
		if !res.Exists() || res.Type == gjson.Null {
			ve.Errors = append(ve.Errors, FieldError{Field: p, Message: "is required"})
		}
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}
