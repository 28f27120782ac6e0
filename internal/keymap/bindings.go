package keymap

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "q", Command: "quit", Context: "global"},
		{Key: "ctrl+c", Command: "quit", Context: "global"},
		{Key: "?", Command: "toggle-help", Context: "global"},
		{Key: "ctrl+h", Command: "toggle-footer", Context: "global"},
		{Key: "r", Command: "refresh", Context: "global"},
		{Key: "j", Command: "cursor-down", Context: "global"},
		{Key: "down", Command: "cursor-down", Context: "global"},
		{Key: "k", Command: "cursor-up", Context: "global"},
		{Key: "up", Command: "cursor-up", Context: "global"},
		{Key: "enter", Command: "select", Context: "global"},
		{Key: "ctrl+p", Command: "quick-open", Context: "global"},
		{Key: "esc", Command: "back", Context: "global"},

		// Explorer tree context
		{Key: "tab", Command: "switch-pane", Context: "explorer-tree"},
		{Key: "shift+tab", Command: "switch-pane", Context: "explorer-tree"},
		{Key: "l", Command: "expand", Context: "explorer-tree"},
		{Key: "right", Command: "expand", Context: "explorer-tree"},
		{Key: "h", Command: "collapse", Context: "explorer-tree"},
		{Key: "left", Command: "collapse", Context: "explorer-tree"},
		{Key: "enter", Command: "open-file", Context: "explorer-tree"},
		{Key: " ", Command: "preview-file", Context: "explorer-tree"},
		{Key: "g", Command: "cursor-top", Context: "explorer-tree"},
		{Key: "G", Command: "cursor-bottom", Context: "explorer-tree"},
		{Key: "Y", Command: "copy-path", Context: "explorer-tree"},
		{Key: "e", Command: "open-external", Context: "explorer-tree"},
		{Key: "I", Command: "toggle-hidden", Context: "explorer-tree"},
		{Key: "/", Command: "filter", Context: "explorer-tree"},

		// Explorer view context (right pane)
		{Key: "tab", Command: "switch-pane", Context: "explorer-view"},
		{Key: "shift+tab", Command: "switch-pane", Context: "explorer-view"},
		{Key: "esc", Command: "back", Context: "explorer-view"},
		{Key: "h", Command: "back", Context: "explorer-view"},
		{Key: "j", Command: "scroll-down", Context: "explorer-view"},
		{Key: "k", Command: "scroll-up", Context: "explorer-view"},
		{Key: "down", Command: "scroll-down", Context: "explorer-view"},
		{Key: "up", Command: "scroll-up", Context: "explorer-view"},
		{Key: "g", Command: "scroll-top", Context: "explorer-view"},
		{Key: "G", Command: "scroll-bottom", Context: "explorer-view"},
		{Key: "ctrl+d", Command: "page-down", Context: "explorer-view"},
		{Key: "ctrl+u", Command: "page-up", Context: "explorer-view"},
		{Key: "]", Command: "next-tab", Context: "explorer-view"},
		{Key: "[", Command: "prev-tab", Context: "explorer-view"},
		{Key: "w", Command: "close-tab", Context: "explorer-view"},
		{Key: "p", Command: "pin-tab", Context: "explorer-view"},
		{Key: "Y", Command: "copy-path", Context: "explorer-view"},
	}
}

// RegisterDefaults registers all default bindings with the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
