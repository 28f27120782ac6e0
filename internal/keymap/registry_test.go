package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/plugin"
)

func TestResolve_ContextBeatsGlobal(t *testing.T) {
	r := NewRegistry()
	r.RegisterBinding(Binding{Key: "enter", Command: "select", Context: "global"})
	r.RegisterBinding(Binding{Key: "enter", Command: "open-file", Context: "explorer-tree"})

	if id, ok := r.Resolve("enter", "explorer-tree"); !ok || id != "open-file" {
		t.Errorf("Resolve in context = %q, %v; want open-file", id, ok)
	}
	if id, ok := r.Resolve("enter", "explorer-view"); !ok || id != "select" {
		t.Errorf("Resolve fallback = %q, %v; want select (global)", id, ok)
	}
}

func TestResolve_UserOverrideWins(t *testing.T) {
	r := NewRegistry()
	r.RegisterBinding(Binding{Key: "p", Command: "pin-tab", Context: "explorer-view"})
	r.SetUserOverride("p", "preview-file")

	if id, _ := r.Resolve("p", "explorer-view"); id != "preview-file" {
		t.Errorf("Resolve = %q, want user override preview-file", id)
	}
}

func TestResolve_UnboundKey(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	if id, ok := r.Resolve("ctrl+alt+del", "explorer-tree"); ok {
		t.Errorf("unbound key resolved to %q", id)
	}
}

func TestHandle_RunsCommandHandler(t *testing.T) {
	r := NewRegistry()
	r.RegisterBinding(Binding{Key: "o", Command: "open-file", Context: "explorer-tree"})

	ran := false
	r.RegisterCommands([]plugin.Command{{
		ID: "open-file",
		Handler: func() tea.Cmd {
			ran = true
			return nil
		},
	}})

	key := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}}
	r.Handle(key, "explorer-tree")
	if !ran {
		t.Error("Handle should invoke the bound handler")
	}

	// Bound key without a registered command is a no-op.
	r.RegisterBinding(Binding{Key: "x", Command: "missing", Context: "explorer-tree"})
	if cmd := r.Handle(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, "explorer-tree"); cmd != nil {
		t.Error("unregistered command should yield nil")
	}
}

func TestDefaultBindings_CoverCoreCommands(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	checks := []struct {
		key, context, want string
	}{
		{"enter", "explorer-tree", "open-file"},
		{" ", "explorer-tree", "preview-file"},
		{"tab", "explorer-tree", "switch-pane"},
		{"w", "explorer-view", "close-tab"},
		{"q", "global", "quit"},
	}
	for _, c := range checks {
		if id, ok := r.Resolve(c.key, c.context); !ok || id != c.want {
			t.Errorf("Resolve(%q, %q) = %q, %v; want %q", c.key, c.context, id, ok, c.want)
		}
	}
}
