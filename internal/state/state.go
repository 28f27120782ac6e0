// Package state persists session state between runs: expanded
// directories, open tabs, pane sizes. State is optional; every accessor
// degrades to a sensible default when no file exists.
package state

import (
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// State holds persistent session state.
type State struct {
	// TreeWidth is the tree pane width in cells (0 = use default).
	TreeWidth int `json:"treeWidth,omitempty"`

	Explorer ExplorerState `json:"explorer,omitempty"`
}

// ExplorerState holds the explorer's persistent state.
type ExplorerState struct {
	SelectedKey  string   `json:"selectedKey,omitempty"`  // selected entry key
	TreeScroll   int      `json:"treeScroll,omitempty"`   // tree pane scroll offset
	ExpandedDirs []string `json:"expandedDirs,omitempty"` // expanded directory keys
	OpenTabs     []string `json:"openTabs,omitempty"`     // permanent view keys in tab order
	PreviewKey   string   `json:"previewKey,omitempty"`   // key held by the preview slot
	ActiveTab    string   `json:"activeTab,omitempty"`    // key of the active view
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// Init loads state from the default location.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "treeline"))
}

// InitWithDir loads state from a specified directory.
// This is primarily for testing to avoid reading real user state.
func InitWithDir(dir string) error {
	path = filepath.Join(dir, "state.json")
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no state file yet, use defaults
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, current)
}

// Save writes state to disk.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetTreeWidth returns the saved tree pane width.
// Returns 0 if no preference is saved (use default).
func GetTreeWidth() int {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return 0
	}
	return current.TreeWidth
}

// SetTreeWidth saves the tree pane width.
func SetTreeWidth(width int) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	current.TreeWidth = width
	mu.Unlock()
	return Save()
}

// GetExplorerState returns the saved explorer state.
func GetExplorerState() ExplorerState {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ExplorerState{}
	}
	return current.Explorer
}

// SetExplorerState saves the explorer state.
func SetExplorerState(state ExplorerState) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	current.Explorer = state
	mu.Unlock()
	return Save()
}
