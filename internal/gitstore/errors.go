package gitstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the remote file or directory does not exist
	ErrNotFound = errors.New("file not found")

	// ErrConflict is matched by every *ConflictError
	ErrConflict = errors.New("version conflict")
)

// ConflictError reports a write rejected because the remote file no longer
// matches the version token supplied by the caller.
type ConflictError struct {
	Path        string
	ExpectedSHA string
	Message     string
}

func (e *ConflictError) Error() string {
	if e.ExpectedSHA == "" {
		return fmt.Sprintf("version conflict on %s: file already exists", e.Path)
	}
	return fmt.Sprintf("version conflict on %s: expected sha %s", e.Path, e.ExpectedSHA)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// TransientError is any backend failure that is neither "absent" nor a
// version conflict: network errors, rate limits, 5xx responses.
type TransientError struct {
	Op         string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransientError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.Path, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Op, e.Path, e.StatusCode)
	}
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the file is absent
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a rejected compare-and-swap write
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
