package vfs

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrAccessDenied marks enumeration or read failures caused by permissions.
var ErrAccessDenied = errors.New("access denied")

// EnumerationError reports a failed directory enumeration. The directory's
// loaded state is unchanged by a failed enumeration, so a retry is possible.
type EnumerationError struct {
	Key string
	Err error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerate %s: %v", e.Key, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// ReadError reports a failed file content read.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// classify maps OS-level permission failures onto ErrAccessDenied so callers
// can branch with errors.Is without knowing the store implementation.
func classify(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return err
}
