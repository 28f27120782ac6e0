package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	configDir  = ".config/treeline"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary. Durations are strings
// in the file ("250ms", "5s"); absent fields are distinguished from
// zero-valued ones with pointers so the defaults survive a partial file.
type rawConfig struct {
	Explorer rawExplorerConfig `json:"explorer"`
	Recents  rawRecentsConfig  `json:"recents"`
	Keymap   KeymapConfig      `json:"keymap"`
	UI       rawUIConfig       `json:"ui"`
}

type rawExplorerConfig struct {
	RefreshInterval string `json:"refreshInterval"`
	ClickWindow     string `json:"clickWindow"`
	Watcher         *bool  `json:"watcher"`
	ShowHidden      *bool  `json:"showHidden"`
	PreviewMaxBytes *int   `json:"previewMaxBytes"`
}

type rawRecentsConfig struct {
	Enabled    *bool `json:"enabled"`
	MaxEntries *int  `json:"maxEntries"`
}

type rawUIConfig struct {
	ShowFooter *bool `json:"showFooter"`
	TreeWidth  *int  `json:"treeWidth"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/treeline/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil // Return defaults on error
		}
		path = filepath.Join(home, configDir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the defaults.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Explorer
	if raw.Explorer.RefreshInterval != "" {
		if d, err := time.ParseDuration(raw.Explorer.RefreshInterval); err == nil {
			cfg.Explorer.RefreshInterval = d
		}
	}
	if raw.Explorer.ClickWindow != "" {
		if d, err := time.ParseDuration(raw.Explorer.ClickWindow); err == nil {
			cfg.Explorer.ClickWindow = d
		}
	}
	if raw.Explorer.Watcher != nil {
		cfg.Explorer.Watcher = *raw.Explorer.Watcher
	}
	if raw.Explorer.ShowHidden != nil {
		cfg.Explorer.ShowHidden = *raw.Explorer.ShowHidden
	}
	if raw.Explorer.PreviewMaxBytes != nil {
		cfg.Explorer.PreviewMaxBytes = *raw.Explorer.PreviewMaxBytes
	}

	// Recents
	if raw.Recents.Enabled != nil {
		cfg.Recents.Enabled = *raw.Recents.Enabled
	}
	if raw.Recents.MaxEntries != nil {
		cfg.Recents.MaxEntries = *raw.Recents.MaxEntries
	}

	// Keymap
	if raw.Keymap.Overrides != nil {
		for k, v := range raw.Keymap.Overrides {
			cfg.Keymap.Overrides[k] = v
		}
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.TreeWidth != nil {
		cfg.UI.TreeWidth = *raw.UI.TreeWidth
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// ConfigDir returns the directory holding treeline's config and state.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir)
}
