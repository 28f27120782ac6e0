package explorer

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/recents"
)

func newTestRecents(t *testing.T) *recents.Store {
	t.Helper()
	st, err := recents.Open(filepath.Join(t.TempDir(), "recents.db"), 10)
	if err != nil {
		t.Fatalf("open recents: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestQuickOpen_ListsMostRecentFirst(t *testing.T) {
	p := newTestPlugin(t)
	st := newTestRecents(t)
	if err := st.TouchAt("main.go", time.Now().Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := st.TouchAt("README.md", time.Now()); err != nil {
		t.Fatal(err)
	}
	p.recents = st

	p.startQuickOpen()
	if !p.quickOpen {
		t.Fatal("picker should be open")
	}
	if !p.ConsumesTextInput() {
		t.Error("picker must capture typed keys")
	}
	if len(p.qoMatches) != 2 || p.qoMatches[0].Key != "README.md" || p.qoMatches[1].Key != "main.go" {
		t.Fatalf("matches = %+v, want README.md then main.go", p.qoMatches)
	}
}

func TestQuickOpen_FilterAndEnterOpensPermanentTab(t *testing.T) {
	p := newTestPlugin(t)
	st := newTestRecents(t)
	if err := st.Touch("main.go"); err != nil {
		t.Fatal(err)
	}
	if err := st.Touch("README.md"); err != nil {
		t.Fatal(err)
	}
	p.recents = st
	p.startQuickOpen()

	p.handleQuickOpenKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ma")})
	if len(p.qoMatches) != 1 || p.qoMatches[0].Key != "main.go" {
		t.Fatalf("matches = %+v, want only main.go", p.qoMatches)
	}

	p.handleQuickOpenKey(tea.KeyMsg{Type: tea.KeyEnter})
	if p.quickOpen {
		t.Error("picker should close on enter")
	}
	tab := p.currentTab()
	if tab == nil || tab.key != "main.go" || tab.preview {
		t.Fatalf("tab = %+v, want permanent main.go", tab)
	}
}

func TestQuickOpen_EscCancelsWithoutOpening(t *testing.T) {
	p := newTestPlugin(t)
	st := newTestRecents(t)
	if err := st.Touch("main.go"); err != nil {
		t.Fatal(err)
	}
	p.recents = st
	p.startQuickOpen()

	p.handleQuickOpenKey(tea.KeyMsg{Type: tea.KeyEsc})
	if p.quickOpen {
		t.Error("picker should close on esc")
	}
	if len(p.tabs) != 0 {
		t.Errorf("tabs = %d, want none", len(p.tabs))
	}
}

func TestQuickOpen_WithoutStoreIsNoOp(t *testing.T) {
	p := newTestPlugin(t)
	if cmd := p.startQuickOpen(); cmd != nil {
		t.Error("expected nil cmd without a store")
	}
	if p.quickOpen {
		t.Error("picker must not open without a store")
	}
}
