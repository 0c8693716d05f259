package service

import "errors"

// ErrNotFound is returned when a record does not exist or is not owned
// by the caller. The two causes are deliberately not distinguished.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is returned for any failed login. It does not
// distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError reports a request the user can correct and resubmit.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validation failures, each with its own reason. Register checks them
// in declaration order and stops at the first violation.
var (
	ErrFieldsRequired   = &ValidationError{Reason: "all fields are required"}
	ErrPasswordMismatch = &ValidationError{Reason: "passwords do not match"}
	ErrPasswordTooShort = &ValidationError{Reason: "password must be at least 6 characters long"}
	ErrEmailTaken       = &ValidationError{Reason: "email already registered"}
	ErrCardIncomplete   = &ValidationError{Reason: "both question and answer are required"}
)

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
