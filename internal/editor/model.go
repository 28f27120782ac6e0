// Package editor holds in-memory document models and the cache that
// guarantees a single shared model per document key, so every view of a
// document sees the same buffer, unsaved edits included.
package editor

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Model is the single in-memory buffer for one document key. All views of
// the key share one Model, so an edit made through any view is visible to
// the others immediately.
type Model struct {
	key      string
	content  []byte
	lines    []string
	dirty    bool
	disposed bool

	// fingerprint of the content as loaded from the store, used to detect
	// external modification on refresh without keeping a second copy.
	loadedSum uint64

	onEdit []func(key string)
}

func newModel(key string, content []byte) *Model {
	m := &Model{
		key:       key,
		content:   content,
		loadedSum: xxhash.Sum64(content),
	}
	m.splitLines()
	return m
}

// Key returns the document key the model is registered under.
func (m *Model) Key() string { return m.key }

// Content returns the current buffer contents.
func (m *Model) Content() []byte { return m.content }

// Lines returns the buffer split into lines for rendering.
func (m *Model) Lines() []string { return m.lines }

// Dirty reports whether the buffer has unsaved edits.
func (m *Model) Dirty() bool { return m.dirty }

// Disposed reports whether the model has been released from its cache.
func (m *Model) Disposed() bool { return m.disposed }

// SetContent replaces the buffer contents. The editing surface calls this on
// every user edit; edit subscribers fire, which is what auto-promotes a
// previewed document.
func (m *Model) SetContent(content []byte) {
	if m.disposed {
		return
	}
	m.content = content
	m.dirty = xxhash.Sum64(content) != m.loadedSum
	m.splitLines()
	for _, fn := range m.onEdit {
		fn(m.key)
	}
}

// MarkSaved records that the current contents have been written back.
func (m *Model) MarkSaved() {
	m.loadedSum = xxhash.Sum64(m.content)
	m.dirty = false
}

// ChangedOnDisk reports whether bytes read back from the store differ from
// the content this model was loaded with.
func (m *Model) ChangedOnDisk(onDisk []byte) bool {
	return xxhash.Sum64(onDisk) != m.loadedSum
}

// OnEdit registers a listener invoked after every SetContent.
func (m *Model) OnEdit(fn func(key string)) {
	m.onEdit = append(m.onEdit, fn)
}

func (m *Model) splitLines() {
	s := strings.TrimSuffix(string(m.content), "\n")
	if s == "" {
		m.lines = nil
		return
	}
	m.lines = strings.Split(s, "\n")
}
