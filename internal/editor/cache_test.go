package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/jdbrinton/treeline/internal/vfs"
)

func loaderOf(content string, calls *int) Loader {
	return func(ctx context.Context) ([]byte, error) {
		*calls++
		return []byte(content), nil
	}
}

func TestGetOrCreate_SharesOneModel(t *testing.T) {
	c := NewModelCache()
	calls := 0

	m1, err := c.GetOrCreate(context.Background(), "a/b.go", loaderOf("package b\n", &calls))
	if err != nil {
		t.Fatal(err)
	}
	m2, err := c.GetOrCreate(context.Background(), "a/b.go", loaderOf("never used", &calls))
	if err != nil {
		t.Fatal(err)
	}

	if m1 != m2 {
		t.Error("same key must return the same model instance")
	}
	if calls != 1 {
		t.Errorf("loader invoked %d times, want 1", calls)
	}
}

func TestGetOrCreate_EditsVisibleAcrossReferences(t *testing.T) {
	c := NewModelCache()
	calls := 0

	m1, _ := c.GetOrCreate(context.Background(), "doc.txt", loaderOf("one\n", &calls))
	m2, _ := c.GetOrCreate(context.Background(), "doc.txt", loaderOf("", &calls))

	m1.SetContent([]byte("one\ntwo\n"))

	if string(m2.Content()) != "one\ntwo\n" {
		t.Error("edit through one reference must be visible through the other")
	}
	if !m2.Dirty() {
		t.Error("edited model should be dirty")
	}
}

func TestGetOrCreate_LoadFailureNotCached(t *testing.T) {
	c := NewModelCache()
	boom := &vfs.ReadError{Key: "bad.txt", Err: errors.New("io failure")}
	fails := 0

	_, err := c.GetOrCreate(context.Background(), "bad.txt", func(ctx context.Context) ([]byte, error) {
		fails++
		return nil, boom
	})
	var readErr *vfs.ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected ReadError, got %v", err)
	}
	if c.Get("bad.txt") != nil {
		t.Error("failed load must not register a model")
	}

	// Retry succeeds and registers.
	calls := 0
	if _, err := c.GetOrCreate(context.Background(), "bad.txt", loaderOf("ok", &calls)); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if c.Get("bad.txt") == nil {
		t.Error("successful retry should register the model")
	}
}

func TestRelease_DisposesModel(t *testing.T) {
	c := NewModelCache()
	calls := 0
	m, _ := c.GetOrCreate(context.Background(), "x.txt", loaderOf("x", &calls))

	c.Release("x.txt")

	if !m.Disposed() {
		t.Error("released model should be disposed")
	}
	if c.Get("x.txt") != nil {
		t.Error("released key should be absent from the cache")
	}
	if c.Len() != 0 {
		t.Errorf("cache len = %d, want 0", c.Len())
	}

	// Releasing again is a no-op.
	c.Release("x.txt")

	// Disposed models ignore writes.
	m.SetContent([]byte("ignored"))
	if string(m.Content()) == "ignored" {
		t.Error("disposed model must ignore SetContent")
	}
}

func TestModel_DirtyTracking(t *testing.T) {
	c := NewModelCache()
	calls := 0
	m, _ := c.GetOrCreate(context.Background(), "n.txt", loaderOf("same\n", &calls))

	m.SetContent([]byte("changed\n"))
	if !m.Dirty() {
		t.Error("changed content should mark dirty")
	}

	m.SetContent([]byte("same\n"))
	if m.Dirty() {
		t.Error("restoring loaded content should clear dirty")
	}

	m.SetContent([]byte("changed again\n"))
	m.MarkSaved()
	if m.Dirty() {
		t.Error("MarkSaved should clear dirty")
	}
	if m.ChangedOnDisk([]byte("changed again\n")) {
		t.Error("saved content should match on-disk fingerprint")
	}
}

func TestModel_OnEdit(t *testing.T) {
	c := NewModelCache()
	calls := 0
	m, _ := c.GetOrCreate(context.Background(), "e.txt", loaderOf("", &calls))

	var edited []string
	m.OnEdit(func(key string) { edited = append(edited, key) })

	m.SetContent([]byte("1"))
	m.SetContent([]byte("2"))

	if len(edited) != 2 || edited[0] != "e.txt" {
		t.Errorf("edit notifications = %v, want two for e.txt", edited)
	}
}

func TestModel_Lines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"single line no newline", "hello", 1},
		{"single line with newline", "hello\n", 1},
		{"three lines", "a\nb\nc\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel("t", []byte(tt.content))
			if got := len(m.Lines()); got != tt.want {
				t.Errorf("lines = %d, want %d", got, tt.want)
			}
		})
	}
}
