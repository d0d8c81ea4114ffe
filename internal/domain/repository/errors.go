package repository

import "errors"

var (
	// ErrNotFound: the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: unique constraint violation (duplicate email, membership).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput: the input fails a store-level invariant.
	ErrInvalidInput = errors.New("invalid input")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
