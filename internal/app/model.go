// Package app is the root Bubble Tea model: a thin host that routes input
// to the registered plugins, draws the frame around them, and owns the few
// app-level overlays (help, quit confirmation, toasts).
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/config"
	"github.com/jdbrinton/treeline/internal/keymap"
	"github.com/jdbrinton/treeline/internal/plugin"
)

// TickMsg is sent on each clock tick.
type TickMsg time.Time

// RefreshMsg asks the active plugin to re-read its data.
type RefreshMsg struct{}

// ErrorMsg reports an error to the user as a toast.
type ErrorMsg struct {
	Err error
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Refresh returns a command that triggers a refresh.
func Refresh() tea.Cmd {
	return func() tea.Msg { return RefreshMsg{} }
}

// ReportError returns a command that reports an error.
func ReportError(err error) tea.Cmd {
	return func() tea.Msg { return ErrorMsg{Err: err} }
}

// Model is the root model.
type Model struct {
	cfg     *config.Config
	workDir string

	registry *plugin.Registry
	keymap   *keymap.Registry

	activeContext string

	width, height int
	ready         bool

	showHelp        bool
	showFooter      bool
	showQuitConfirm bool

	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	lastError error
}

// New creates the application model.
func New(reg *plugin.Registry, km *keymap.Registry, cfg *config.Config, workDir string) Model {
	return Model{
		cfg:           cfg,
		workDir:       workDir,
		registry:      reg,
		keymap:        km,
		activeContext: "global",
		showFooter:    cfg.UI.ShowFooter,
	}
}

// Init starts the clock and every registered plugin.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	for _, cmd := range m.registry.StartAll() {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if p := m.ActivePlugin(); p != nil {
		p.SetFocused(true)
	}
	return tea.Batch(cmds...)
}

// ActivePlugin returns the focused plugin, or nil.
func (m Model) ActivePlugin() plugin.Plugin {
	return m.registry.Active()
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(message string, duration time.Duration, isError bool) {
	m.statusMsg = message
	m.statusExpiry = time.Now().Add(duration)
	m.statusIsError = isError
}

// ClearToast drops an expired toast.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// updateContext mirrors the active plugin's focus context.
func (m *Model) updateContext() {
	if p := m.ActivePlugin(); p != nil {
		m.activeContext = p.FocusContext()
	} else {
		m.activeContext = "global"
	}
}
