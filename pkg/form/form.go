package form

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is one failed check on one field.
type FieldError struct {
	Field   string
	Message string
}

// Errors collects every failed check from a single Apply pass.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// Has reports whether any check failed for the named field.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Rule is a single check bound to its input.
type Rule struct {
	Check func() bool
	Error FieldError
}

// Apply runs every rule and returns nil or the accumulated Errors.
func Apply(rules ...Rule) error {
	var failed Errors
	for _, r := range rules {
		if !r.Check() {
			failed = append(failed, r.Error)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return failed
}

// AsErrors extracts Errors from err, if present.
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
