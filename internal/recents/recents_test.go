package recents

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "recents.db"), maxEntries)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTouchAndList(t *testing.T) {
	s := openTestStore(t, 10)

	base := time.Now()
	if err := s.TouchAt("a.txt", base); err != nil {
		t.Fatal(err)
	}
	if err := s.TouchAt("b.txt", base.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	if err := s.TouchAt("c.txt", base.Add(2*time.Second)); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Most recent first
	if entries[0].Key != "c.txt" || entries[2].Key != "a.txt" {
		t.Errorf("unexpected order: %v", entries)
	}
}

func TestTouch_SameKeyUpdatesInPlace(t *testing.T) {
	s := openTestStore(t, 10)

	base := time.Now()
	if err := s.TouchAt("a.txt", base); err != nil {
		t.Fatal(err)
	}
	if err := s.TouchAt("a.txt", base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (same key should not duplicate)", len(entries))
	}
	if entries[0].Opens != 2 {
		t.Errorf("got %d opens, want 2", entries[0].Opens)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	s := openTestStore(t, 3)

	base := time.Now()
	keys := []string{"one", "two", "three", "four", "five"}
	for i, key := range keys {
		if err := s.TouchAt(key, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 after prune", len(entries))
	}
	if entries[0].Key != "five" || entries[2].Key != "three" {
		t.Errorf("prune kept wrong entries: %v", entries)
	}
}

func TestForget(t *testing.T) {
	s := openTestStore(t, 10)

	if err := s.Touch("gone.txt"); err != nil {
		t.Fatal(err)
	}
	if err := s.Forget("gone.txt"); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries after Forget, want 0", len(entries))
	}

	// Forgetting an absent key is fine.
	if err := s.Forget("never-seen"); err != nil {
		t.Errorf("Forget of absent key: %v", err)
	}
}

func TestList_LimitCaps(t *testing.T) {
	s := openTestStore(t, 50)

	base := time.Now()
	for i := 0; i < 10; i++ {
		key := filepath.Join("dir", string(rune('a'+i)))
		if err := s.TouchAt(key, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.List(4)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("got %d entries, want 4", len(entries))
	}
}

func TestOpen_AppliesJournalModePragma(t *testing.T) {
	s := openTestStore(t, 10)

	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if !strings.EqualFold(mode, "wal") {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := s.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatal(err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}
