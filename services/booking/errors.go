package booking

import (
	"errors"
	"fmt"
)

// Error codes for the booking lifecycle. All are local, recoverable
// conditions surfaced with enough detail for a user-facing message.
const (
	CodeValidation      = "validationError"
	CodeNotFound        = "notFound"
	CodeStateConflict   = "stateConflict"
	CodePolicyViolation = "policyViolation"
)

// ServiceError carries a stable code alongside the message.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(format string, args ...any) error {
	return &ServiceError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &ServiceError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewStateConflictError(format string, args ...any) error {
	return &ServiceError{Code: CodeStateConflict, Message: fmt.Sprintf(format, args...)}
}

func NewPolicyViolationError(format string, args ...any) error {
	return &ServiceError{Code: CodePolicyViolation, Message: fmt.Sprintf(format, args...)}
}

func codeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return codeOf(err) == CodeValidation }

// IsNotFound reports whether err is a missing-entity failure.
func IsNotFound(err error) bool { return codeOf(err) == CodeNotFound }

// IsStateConflict reports whether err is a state-machine or CAS conflict.
func IsStateConflict(err error) bool { return codeOf(err) == CodeStateConflict }

// IsPolicyViolation reports whether err is a policy breach on an
// otherwise valid entity.
func IsPolicyViolation(err error) bool { return codeOf(err) == CodePolicyViolation }
