// Package service provides business logic for the application.
package service

import (
	"errors"
	"strings"
)

// Service errors.
var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password; the two are deliberately indistinguishable to avoid
	// account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrWalletNameExists   = errors.New("wallet name already exists")
	ErrLastWallet         = errors.New("cannot delete the last wallet")
	ErrEmptyPatch         = errors.New("no fields to update")
)

// FieldError describes a validation failure on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level validation failures.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// add appends a field failure.
func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// orNil returns the error, or nil when no field failed.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
