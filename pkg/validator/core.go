package validator

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidationFailed = errors.New("validator.failed")

// ValidationError is a single failed rule.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects the failed rules of one Apply call.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve ValidationErrors) Unwrap() error { return ErrValidationFailed }

// Has reports whether field failed any rule.
func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages recorded for field.
func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Fields lists failed fields in first-failure order.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

// Rule is one check with the error reported when it fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply runs every rule and returns ValidationErrors, or nil when all pass.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// When returns rules only if cond holds; used for optional fields.
func When(cond bool, rules ...Rule) Rule {
	return Rule{
		Check: func() bool {
			return !cond || Apply(rules...) == nil
		},
		Error: firstError(rules),
	}
}

func firstError(rules []Rule) ValidationError {
	for _, r := range rules {
		if !r.Check() {
			return r.Error
		}
	}
	return ValidationError{}
}

// ExtractValidationErrors returns the ValidationErrors inside err, if any.
func ExtractValidationErrors(err error) ValidationErrors {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}

func IsValidationError(err error) bool {
	return ExtractValidationErrors(err) != nil
}
