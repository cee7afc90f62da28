package services

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound is returned when the referenced quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")

	// ErrAttemptNotAllowed is returned when a user already has a result for
	// a quiz that does not allow reattempts.
	ErrAttemptNotAllowed = errors.New("quiz already attempted and reattempts are not allowed")
)

// PersistenceError wraps any failure coming back from the database during
// attempt recording. Callers must not treat a failed record as a completed
// attempt.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
