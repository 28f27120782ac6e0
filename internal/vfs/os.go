package vfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// OS is a Handle over the real filesystem rooted at a directory. Keys are
// paths relative to the root ("" is the root itself).
type OS struct {
	root       string
	showHidden bool
}

// NewOS creates a filesystem handle rooted at dir. Dotfiles are hidden
// until SetShowHidden(true).
func NewOS(dir string) *OS {
	return &OS{root: filepath.Clean(dir)}
}

// Root returns the absolute root directory of the handle.
func (h *OS) Root() string { return h.root }

// SetShowHidden controls whether dotfiles appear in enumerations. Takes
// effect on the next Enumerate; callers refresh after flipping it.
func (h *OS) SetShowHidden(v bool) { h.showHidden = v }

// ShowHidden reports whether dotfiles are included in enumerations.
func (h *OS) ShowHidden() bool { return h.showHidden }

// Enumerate lists the directory at key in os.ReadDir order.
func (h *OS) Enumerate(ctx context.Context, key string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, &EnumerationError{Key: key, Err: err}
	}
	entries, err := os.ReadDir(h.abs(key))
	if err != nil {
		return nil, &EnumerationError{Key: key, Err: classify(err)}
	}
	out := make([]Entry, 0, len(entries))
	for _, ent := range entries {
		if isSystemFile(ent.Name()) {
			continue
		}
		if !h.showHidden && strings.HasPrefix(ent.Name(), ".") {
			continue
		}
		kind := KindFile
		if ent.IsDir() {
			kind = KindDir
		}
		out = append(out, Entry{
			Name: ent.Name(),
			Kind: kind,
			Key:  childKey(key, ent.Name()),
		})
	}
	return out, nil
}

// ReadFile returns the contents of the file at key.
func (h *OS) ReadFile(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ReadError{Key: key, Err: err}
	}
	data, err := os.ReadFile(h.abs(key))
	if err != nil {
		return nil, &ReadError{Key: key, Err: classify(err)}
	}
	return data, nil
}

// WriteFile replaces the contents of the file at key.
func (h *OS) WriteFile(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(h.abs(key), data, 0644)
}

func (h *OS) abs(key string) string {
	if key == "" {
		return h.root
	}
	return filepath.Join(h.root, filepath.FromSlash(key))
}

// childKey joins a directory key and an entry name. Keys always use forward
// slashes regardless of platform so they are stable across snapshots.
func childKey(dirKey, name string) string {
	if dirKey == "" {
		return name
	}
	return dirKey + "/" + name
}

// isSystemFile returns true for OS metadata files that should never appear
// in the tree.
func isSystemFile(name string) bool {
	switch name {
	case ".DS_Store", ".Spotlight-V100", ".Trashes", ".fseventsd",
		".TemporaryItems", ".DocumentRevisions-V100",
		"Thumbs.db", "desktop.ini", "$RECYCLE.BIN":
		return true
	}
	return strings.HasPrefix(name, "._")
}
