package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations
var (
	// ErrEntityNotFound indicates a uid lookup found no file or folder
	ErrEntityNotFound = errors.New("entity not found")

	// ErrPageOutOfRange indicates a page index outside [0, totalPages)
	ErrPageOutOfRange = errors.New("page index out of range")

	// ErrRemoteFailed indicates the remote storage service rejected an operation
	ErrRemoteFailed = errors.New("remote operation failed")

	// ErrInvalidName indicates an empty or unusable entity name
	ErrInvalidName = errors.New("invalid name")
)

// RemoteError wraps a gateway failure with the operation that caused it.
// It matches ErrRemoteFailed under errors.Is.
type RemoteError struct {
	Op  string // e.g. "trash file"
	UID string // Target uid, empty for creates and uploads
	Err error
}

func (e *RemoteError) Error() string {
	if e.UID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.UID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteFailed
}

// NotFound wraps ErrEntityNotFound with the kind and uid that were looked up
func NotFound(kind EntryKind, uid string) error {
	return fmt.Errorf("%w: %s %q", ErrEntityNotFound, kind, uid)
}
