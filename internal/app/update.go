package app

import (
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/msg"
	"github.com/jdbrinton/treeline/internal/plugin"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		// fall through so plugins learn the new size too

	case TickMsg:
		m.ClearToast()
		return m, tickCmd()

	case msg.ToastMsg:
		m.ShowToast(message.Message, message.Duration, message.IsError)
		return m, nil

	case RefreshMsg:
		if p := m.ActivePlugin(); p != nil {
			_, cmd := p.Update(message)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case ErrorMsg:
		m.lastError = message.Err
		m.ShowToast("Error: "+message.Err.Error(), 5*time.Second, true)
		return m, nil

	case plugin.OpenFileMsg:
		c := exec.Command(message.Editor, message.Path)
		return m, tea.ExecProcess(c, func(err error) tea.Msg {
			if err != nil {
				return ErrorMsg{Err: err}
			}
			return RefreshMsg{}
		})
	}

	// Forward everything else to all plugins so async results reach their
	// owner even when it is not focused.
	plugins := m.registry.Plugins()
	for i, p := range plugins {
		newPlugin, cmd := p.Update(message)
		plugins[i] = newPlugin
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	m.updateContext()

	return m, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if message.Type == tea.KeyEsc {
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.showQuitConfirm {
			m.showQuitConfirm = false
			return m, nil
		}
	}

	if m.showQuitConfirm {
		if message.String() == "y" || message.Type == tea.KeyEnter {
			m.registry.StopAll()
			return m, tea.Quit
		}
		if message.String() == "n" {
			m.showQuitConfirm = false
		}
		return m, nil
	}

	// Text input contexts get every key except ctrl+c, so typing in a
	// filter box is never hijacked by shortcuts.
	if p := m.ActivePlugin(); p != nil {
		if tc, ok := p.(plugin.TextInputConsumer); ok && tc.ConsumesTextInput() {
			if message.String() == "ctrl+c" {
				m.showQuitConfirm = true
				return m, nil
			}
			newPlugin, cmd := p.Update(message)
			m.registry.Plugins()[m.registry.ActiveIndex()] = newPlugin
			m.updateContext()
			return m, cmd
		}
	}

	switch message.String() {
	case "ctrl+c":
		if !m.showHelp {
			m.showQuitConfirm = true
			return m, nil
		}
	case "q":
		// 'q' quits only in contexts that don't bind it to navigation
		if !m.showHelp && isRootContext(m.activeContext) {
			m.showQuitConfirm = true
			return m, nil
		}
	}

	switch message.String() {
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "ctrl+h":
		m.showFooter = !m.showFooter
		return m, nil
	}

	if m.showHelp {
		return m, nil
	}

	if cmd := m.keymap.Handle(message, m.activeContext); cmd != nil {
		return m, cmd
	}

	// Unbound keys go to the active plugin.
	if p := m.ActivePlugin(); p != nil {
		newPlugin, cmd := p.Update(message)
		plugins := m.registry.Plugins()
		plugins[m.registry.ActiveIndex()] = newPlugin
		m.updateContext()
		return m, cmd
	}

	return m, nil
}

// isRootContext reports whether 'q' should quit in the given context.
func isRootContext(ctx string) bool {
	switch ctx {
	case "global", "", "explorer-tree":
		return true
	default:
		return false
	}
}
