package domain

import "errors"

// Stable machine-readable error codes surfaced to API clients.
const (
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodePhoneTaken         = "PHONE_TAKEN"
	CodeDeletedEmailExists = "DELETED_EMAIL_EXISTS"
	CodeDeletedPhoneExists = "DELETED_PHONE_EXISTS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
)

// ConflictError signals a uniqueness or state-precondition violation,
// distinct from malformed input.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflict builds a ConflictError with a stable code.
func NewConflict(code, message string) *ConflictError {
	return &ConflictError{Code: code, Message: message}
}

// ValidationError signals malformed or policy-violating input. Violations
// carries every individual policy failure when more than one is collected
// (password policy); Message alone is used otherwise.
type ValidationError struct {
	Code       string
	Message    string
	Violations []string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidation builds a single-message ValidationError.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Code: CodeValidation, Message: message}
}

// NewPolicyViolations wraps a list of collected policy failures.
func NewPolicyViolations(violations []string) *ValidationError {
	return &ValidationError{
		Code:       CodeValidation,
		Message:    "password does not meet policy requirements",
		Violations: violations,
	}
}
