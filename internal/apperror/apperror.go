// Package apperror defines the application's error taxonomy.
//
// Domain services return these typed errors; the HTTP layer maps each kind
// to a fixed status code and a sanitized body (see handler/response.go).
// Nothing below the HTTP layer knows about status codes.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying each error kind. Callers test for them with
// errors.Is, which walks the chain through AppError.Unwrap.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal inconsistency")
)

// AppError carries a machine-checkable kind (Err) plus the human-readable
// message the API is allowed to expose. Details holds per-field validation
// messages and is only set for validation failures.
type AppError struct {
	Err     error
	Message string
	Details map[string]string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a record does not exist. The repositories return it;
// services decide what it means (a missing user at login is an invalid
// credential, a missing user behind a verified token is Internal).
func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

// ValidationFailed reports one or more invalid request fields.
// The details map is returned to the client verbatim.
func ValidationFailed(details map[string]string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "Invalid request data",
		Details: details,
	}
}

// DuplicateEmail reports a registration attempt with an already-taken email.
func DuplicateEmail() *AppError {
	return &AppError{
		Err:     ErrDuplicateEmail,
		Message: "Email already registered",
	}
}

// InvalidCredentials reports a failed login. The message is deliberately the
// same whether the email is unknown or the password is wrong, so callers
// cannot probe which emails are registered.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Invalid email or password",
	}
}

// Internal reports a server-side inconsistency. The message is for logs;
// the HTTP layer never exposes it to the client.
func Internal(message string) *AppError {
	return &AppError{
		Err:     ErrInternal,
		Message: message,
	}
}
