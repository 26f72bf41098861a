// Package validation holds the registration validator primitives and the
// password policy engine. The uniqueness validators are read-only predicates
// over the user repository; the password policy is a pure function.
package validation

import "strings"

// FieldError is a single failed check: the offending field, a human message,
// and a stable machine-readable code.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Result is the outcome of one validator run.
type Result struct {
	Valid  bool         `json:"is_valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Valid returns a passing result.
func Valid() Result {
	return Result{Valid: true}
}

// Invalid returns a failing result carrying a single field error.
func Invalid(field, message, code string) Result {
	return Result{Valid: false, Errors: []FieldError{{Field: field, Message: message, Code: code}}}
}

// First returns the first field error, or nil for a passing result.
func (r Result) First() *FieldError {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

// NormalizeEmail lowercases and trims an email address. All email
// comparisons in the system operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
