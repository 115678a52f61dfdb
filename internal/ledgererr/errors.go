// Package ledgererr defines the error kinds surfaced by ledger operations.
// Every error returned by the storage, operator and service layers wraps
// exactly one of the sentinels below (unknown-account errors wrap two), so
// callers branch with errors.Is.
package ledgererr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateName = errors.New("duplicate name")
	ErrNotFound      = errors.New("not found")
	ErrConstraint    = errors.New("constraint violation")
	ErrStorage       = errors.New("storage failure")
	ErrConflict      = errors.New("write conflict")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func DuplicateName(name string) error {
	return fmt.Errorf("%w: account name %q already exists", ErrDuplicateName, name)
}

func NotFound(entity string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
}

// UnknownAccount is returned when a transaction references an account that
// does not exist. It is both a NotFound and a Constraint error.
func UnknownAccount(id int64) error {
	return fmt.Errorf("%w: %w: account %d", ErrNotFound, ErrConstraint, id)
}

func Storage(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func Conflict(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConflict, op, err)
}

func Constraint(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConstraint, op, err)
}

// Classified reports whether err already carries one of the ledger kinds.
func Classified(err error) bool {
	for _, kind := range []error{ErrValidation, ErrDuplicateName, ErrNotFound, ErrConstraint, ErrStorage, ErrConflict} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// Retryable reports whether the operation may succeed if attempted again.
func Retryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
