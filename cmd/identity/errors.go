package identity

import (
	"errors"
	"fmt"
)

// InvalidCredentialsMessage is the only message an authentication failure ever carries.
// Unknown email, missing credential and wrong password are indistinguishable to callers.
const InvalidCredentialsMessage = "invalid email or password"

// OpError is a typed operation error with a stable Op + Kind contract for callers/tests.
// Msg may include human-readable context; it must never include secrets.
type OpError struct {
	Op   string
	Kind error
	Msg  string
}

func (e OpError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e OpError) Unwrap() error { return e.Kind }

// ValidationError reports a malformed field (blank or wrong format).
// Field is a stable logical name: "id", "email", "name", "phone", "password", "roles".
type ValidationError struct {
	Op    string
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v: %s", e.Op, ErrInvalidInput, e.Msg)
	}
	return fmt.Sprintf("%s: %v: %s: %s", e.Op, ErrInvalidInput, e.Field, e.Msg)
}

func (e ValidationError) Unwrap() error { return ErrInvalidInput }

// ConflictError reports a uniqueness/constraint conflict for a specific logical field.
// Field should be a stable logical name: "email", "id", ...
type ConflictError struct {
	Op    string
	Field string
}

func (e ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrConflict)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrConflict, e.Field)
}

func (e ConflictError) Unwrap() error { return ErrConflict }

// NotFoundError reports a missing identity (or other referenced resource).
type NotFoundError struct {
	Op       string
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrNotFound)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrNotFound, e.Resource)
}

func (e NotFoundError) Unwrap() error { return ErrNotFound }

// AuthenticationError is returned for every credential failure.
// Its message is always InvalidCredentialsMessage, whatever the cause.
type AuthenticationError struct{}

func (AuthenticationError) Error() string { return InvalidCredentialsMessage }

func (AuthenticationError) Unwrap() error { return ErrUnauthenticated }

func notFound(op string) error {
	return NotFoundError{Op: op, Resource: "identity"}
}

func invalid(op, field, msg string) error {
	return ValidationError{Op: op, Field: field, Msg: msg}
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// IsDuplicateEmail reports whether err is a ConflictError on the email field.
func IsDuplicateEmail(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce) && ce.Field == "email"
}

// IsNotFound reports whether err represents ErrNotFound (including NotFoundError).
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidInput reports whether err represents ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsUnauthenticated reports whether err represents ErrUnauthenticated.
func IsUnauthenticated(err error) bool { return errors.Is(err, ErrUnauthenticated) }
