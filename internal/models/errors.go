package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the store surface
var (
	// ErrIDMissing indicates the caller omitted a required entity id
	ErrIDMissing = errors.New("entity id is required")

	// ErrAlreadyExists indicates a unique-constraint conflict,
	// e.g. a duplicate label name
	ErrAlreadyExists = errors.New("entity already exists")
)

// NotFoundError indicates a referenced entity is absent. It is distinct
// from a generic database error so callers can branch on it.
type NotFoundError struct {
	Kind string // entity kind, e.g. "item"
	ID   string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// NewNotFound builds a NotFoundError for the given entity kind and id
func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// DatabaseError wraps a backend failure (connection loss, constraint
// violation) without losing the native error.
type DatabaseError struct {
	Op  string // operation name, e.g. "insert item"
	Err error
}

// Error implements the error interface
func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error in %s: %v", e.Op, e.Err)
}

// Unwrap exposes the backend's native error
func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// WrapDB wraps err as a DatabaseError, preserving the original cause.
// Returns nil when err is nil.
func WrapDB(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DatabaseError{Op: op, Err: err}
}
