package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/app"
	"github.com/jdbrinton/treeline/internal/config"
	"github.com/jdbrinton/treeline/internal/explorer"
	"github.com/jdbrinton/treeline/internal/keymap"
	"github.com/jdbrinton/treeline/internal/plugin"
	"github.com/jdbrinton/treeline/internal/recents"
	"github.com/jdbrinton/treeline/internal/state"
	"github.com/jdbrinton/treeline/internal/vfs"
	"github.com/jdbrinton/treeline/internal/workspace"
)

// Version is set at build time via ldflags
var Version = ""

var (
	configPath  = flag.String("config", "", "path to config file")
	rootDir     = flag.String("root", ".", "workspace root directory")
	debugFlag   = flag.Bool("debug", false, "enable debug logging")
	versionFlag = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("treeline version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *debugFlag {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// state is optional; a missing or unreadable file means defaults
	_ = state.Init()

	workDir, err := filepath.Abs(*rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve workspace root: %v\n", err)
		os.Exit(1)
	}

	handle := vfs.NewOS(workDir)

	var rec *recents.Store
	if cfg.Recents.Enabled {
		rec, err = recents.Open(filepath.Join(config.ConfigDir(), "recents.db"), cfg.Recents.MaxEntries)
		if err != nil {
			logger.Warn("recents store unavailable", "error", err)
		} else {
			defer rec.Close()
		}
	}

	// The explorer's tab strip is the workspace's view provider, so the
	// plugin exists before the workspace that drives it.
	exp := explorer.New(cfg, handle, rec)
	ws := workspace.New(handle, exp, logger)

	pluginCtx := &plugin.Context{
		WorkDir:   workDir,
		ConfigDir: config.ConfigDir(),
		Workspace: ws,
		Logger:    logger,
	}

	registry := plugin.NewRegistry(pluginCtx)
	registry.Register(exp)
	if err := registry.InitAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize plugins: %v\n", err)
		os.Exit(1)
	}

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	for _, p := range registry.Plugins() {
		km.RegisterCommands(p.Commands())
	}
	for key, cmdID := range cfg.Keymap.Overrides {
		km.SetUserOverride(key, cmdID)
	}

	model := app.New(registry, km, cfg, workDir)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: treeline [options]\n\n")
		fmt.Fprintf(os.Stderr, "A terminal file explorer with previews and tabs.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
