// Package vfs defines the capability interface through which the rest of the
// application reaches the external file store. Components never touch the
// filesystem directly; they hold a Handle.
package vfs

import "context"

// Kind distinguishes directory entries.
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

// Entry is one immediate child of a directory, in the order the store
// reported it. Key is a stable identifier (path) usable with the same Handle.
type Entry struct {
	Name string
	Kind Kind
	Key  string
}

// Handle enumerates directories and reads/writes file contents.
// Enumeration order is whatever the underlying store reports; callers must
// treat it as authoritative and not re-sort.
type Handle interface {
	// Enumerate lists the immediate children of the directory at key.
	Enumerate(ctx context.Context, key string) ([]Entry, error)

	// ReadFile returns the full contents of the file at key.
	ReadFile(ctx context.Context, key string) ([]byte, error)

	// WriteFile replaces the contents of the file at key.
	WriteFile(ctx context.Context, key string, data []byte) error
}
