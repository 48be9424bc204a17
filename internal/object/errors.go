package object

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a branch, tree, blob or commit identity does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation indicates a request the engine refuses, such as an
	// empty change set or a fork before the default branch exists.
	ErrInvalidOperation = errors.New("invalid operation")
)

// StoreError reports a read or write fault of a store collaborator.
type StoreError struct {
	Op   string
	Kind string
	ID   string
	Err  error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err with the failing operation.
func NewStoreError(op, kind, id string, err error) *StoreError {
	return &StoreError{Op: op, Kind: kind, ID: id, Err: err}
}

// NotFound returns an ErrNotFound wrapped with the missing identity.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// IsNotFound reports whether err is in the ErrNotFound chain.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
