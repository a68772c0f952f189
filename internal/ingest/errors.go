package ingest

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// The error taxonomy for ingestion. Every failure leaving this package is
// one of these kinds; the HTTP boundary maps kinds to response codes and
// decides which messages are safe to expose.

// ValidationError reports a malformed request: an unparseable date, an
// empty batch, or an oversized batch. Classified as a client error; the
// message is specific and stable.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseError reports a present-but-unparseable timestamp string. It
// carries the original input and is classified as a validation failure.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognised date format: %q", e.Input)
}

// ConstraintError reports a row rejected by the store, e.g. a series name
// failing the CHECK constraint. The store is the sole enforcer of the
// shape rule, so its message is passed through verbatim as the only
// accurate description of the violation. Classified as a client error.
type ConstraintError struct {
	Message string
}

func (e *ConstraintError) Error() string {
	return e.Message
}

// ConnectionError reports an exhausted pool or an unreachable store.
// Classified as a server error; callers receive a generic message, the
// wrapped cause is for logs only.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("acquiring database connection: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// StorageError reports any other storage-layer failure. Classified as a
// server error with a generic caller-facing message.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Translate classifies a storage-layer error into the taxonomy. It is
// called exactly once per request, at the transaction boundary; errors
// that are already taxonomy values pass through unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	// Already classified (validation failures reach here when the
	// repository enforces batch policy).
	var (
		validationErr *ValidationError
		parseErr      *ParseError
		constraintErr *ConstraintError
		connErr       *ConnectionError
		storageErr    *StorageError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &parseErr),
		errors.As(err, &constraintErr),
		errors.As(err, &connErr),
		errors.As(err, &storageErr):
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return &ConstraintError{Message: sqliteErr.Error()}
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen:
			return &ConnectionError{Err: err}
		}
		return &StorageError{Err: err}
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return &ConnectionError{Err: err}
	}

	return &StorageError{Err: err}
}
