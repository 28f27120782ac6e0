package config

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Explorer saveExplorerConfig `json:"explorer"`
	Recents  saveRecentsConfig  `json:"recents"`
	Keymap   KeymapConfig       `json:"keymap"`
	UI       saveUIConfig       `json:"ui"`
}

type saveExplorerConfig struct {
	RefreshInterval string `json:"refreshInterval,omitempty"`
	ClickWindow     string `json:"clickWindow,omitempty"`
	Watcher         *bool  `json:"watcher,omitempty"`
	ShowHidden      *bool  `json:"showHidden,omitempty"`
	PreviewMaxBytes *int   `json:"previewMaxBytes,omitempty"`
}

type saveRecentsConfig struct {
	Enabled    *bool `json:"enabled,omitempty"`
	MaxEntries *int  `json:"maxEntries,omitempty"`
}

type saveUIConfig struct {
	ShowFooter *bool `json:"showFooter,omitempty"`
	TreeWidth  *int  `json:"treeWidth,omitempty"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Explorer: saveExplorerConfig{
			RefreshInterval: cfg.Explorer.RefreshInterval.String(),
			ClickWindow:     cfg.Explorer.ClickWindow.String(),
			Watcher:         &cfg.Explorer.Watcher,
			ShowHidden:      &cfg.Explorer.ShowHidden,
			PreviewMaxBytes: &cfg.Explorer.PreviewMaxBytes,
		},
		Recents: saveRecentsConfig{
			Enabled:    &cfg.Recents.Enabled,
			MaxEntries: &cfg.Recents.MaxEntries,
		},
		Keymap: cfg.Keymap,
		UI: saveUIConfig{
			ShowFooter: &cfg.UI.ShowFooter,
			TreeWidth:  &cfg.UI.TreeWidth,
		},
	}
}

// Save writes the config to ~/.config/treeline/config.json
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sc := toSaveConfig(cfg)
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
