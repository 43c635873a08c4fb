package h5loader

import (
	"errors"
	"fmt"
)

var (
	// ErrFileAccess is returned when a container cannot be created, does not
	// exist, or is not a valid HDF5 file.
	ErrFileAccess = errors.New("file access failed")

	// ErrMissingRecord is returned when a requested record is absent.
	ErrMissingRecord = errors.New("record not found")

	// ErrTypeMismatch is returned when data does not fit the record's kind or shape.
	ErrTypeMismatch = errors.New("type or shape mismatch")

	// ErrDuplicateRecord is returned when a name is written twice to one container.
	ErrDuplicateRecord = errors.New("record already exists")

	// ErrClosed is returned by operations on a closed Writer or Reader.
	ErrClosed = errors.New("container closed")
)

// Error describes a failed container operation.
//
// Err carries both the category sentinel (ErrFileAccess, ErrMissingRecord, ...)
// and the underlying cause, so either can be matched with errors.Is/errors.As.
type Error struct {
	Op     string // open, create, read, list, close
	Path   string
	Record string // empty for container-level failures
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("h5loader: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("h5loader: %s %s[%s]: %v", e.Op, e.Path, e.Record, e.Err)
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *Error) Unwrap() error {
	return e.Err
}

// newError joins kind and cause into a single *Error. A nil cause yields an
// error matching kind only.
func newError(op, path, record string, kind, cause error) error {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &Error{Op: op, Path: path, Record: record, Err: err}
}

// wrapError attaches operation context to an error that already carries a
// category. Errors that are already *Error pass through unchanged.
func wrapError(op, path, record string, cause error) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) {
		return cause
	}
	return &Error{Op: op, Path: path, Record: record, Err: cause}
}

// withPath fills in the container path of an *Error raised before the path
// was known.
func withPath(err error, path string) error {
	var e *Error
	if errors.As(err, &e) && e.Path == "" {
		e.Path = path
	}
	return err
}
