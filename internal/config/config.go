package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Explorer ExplorerConfig `json:"explorer"`
	Recents  RecentsConfig  `json:"recents"`
	Keymap   KeymapConfig   `json:"keymap"`
	UI       UIConfig       `json:"ui"`
}

// ExplorerConfig configures the file tree and its refresh behavior.
type ExplorerConfig struct {
	// RefreshInterval is how often expanded directories are re-read to
	// pick up external changes. The watcher makes refreshes happen
	// sooner; the interval is the fallback when watch events are missed.
	RefreshInterval time.Duration `json:"refreshInterval"`

	// ClickWindow is how long a single click stays pending before it
	// resolves to a preview instead of a double-click open.
	ClickWindow time.Duration `json:"clickWindow"`

	// Watcher enables filesystem notifications for expanded directories.
	Watcher bool `json:"watcher"`

	// ShowHidden includes dotfiles in directory listings.
	ShowHidden bool `json:"showHidden"`

	// PreviewMaxBytes caps how much of a file is loaded for preview.
	PreviewMaxBytes int `json:"previewMaxBytes"`
}

// RecentsConfig configures the recent-documents store.
type RecentsConfig struct {
	Enabled bool `json:"enabled"`
	// MaxEntries bounds the recents list; older entries are pruned.
	MaxEntries int `json:"maxEntries"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter bool `json:"showFooter"`
	// TreeWidth is the initial width of the tree pane in cells.
	TreeWidth int `json:"treeWidth"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Explorer: ExplorerConfig{
			RefreshInterval: 5 * time.Second,
			ClickWindow:     250 * time.Millisecond,
			Watcher:         true,
			ShowHidden:      false,
			PreviewMaxBytes: 1024 * 1024,
		},
		Recents: RecentsConfig{
			Enabled:    true,
			MaxEntries: 100,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowFooter: true,
			TreeWidth:  36,
		},
	}
}

// Validate checks the configuration for errors, clamping out-of-range
// values back to their defaults.
func (c *Config) Validate() error {
	if c.Explorer.RefreshInterval <= 0 {
		c.Explorer.RefreshInterval = 5 * time.Second
	}
	if c.Explorer.ClickWindow <= 0 {
		c.Explorer.ClickWindow = 250 * time.Millisecond
	}
	if c.Explorer.PreviewMaxBytes <= 0 {
		c.Explorer.PreviewMaxBytes = 1024 * 1024
	}
	if c.Recents.MaxEntries <= 0 {
		c.Recents.MaxEntries = 100
	}
	if c.UI.TreeWidth < 16 {
		c.UI.TreeWidth = 36
	}
	return nil
}
