package explorer

import (
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/recents"
	"github.com/jdbrinton/treeline/internal/styles"
)

func newQuickOpenInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "recent files"
	ti.Prompt = "> "
	ti.CharLimit = 128
	return ti
}

// startQuickOpen opens the recents picker over the tree pane. Without a
// recents store the command is a no-op.
func (p *Plugin) startQuickOpen() tea.Cmd {
	if p.recents == nil {
		return nil
	}
	entries, err := p.recents.List(50)
	if err != nil {
		p.logger.Warn("list recents failed", "error", err)
		return nil
	}
	p.pane = paneTree
	p.quickOpen = true
	p.qoEntries = entries
	p.qoCursor = 0
	p.qoInput.Reset()
	p.matchQuickOpen()
	return p.qoInput.Focus()
}

func (p *Plugin) closeQuickOpen() {
	p.quickOpen = false
	p.qoInput.Blur()
	p.qoEntries = nil
	p.qoMatches = nil
}

// handleQuickOpenKey feeds one key into the picker. Enter opens the
// highlighted entry as a permanent tab; esc cancels.
func (p *Plugin) handleQuickOpenKey(m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyEsc:
		p.closeQuickOpen()
		return nil
	case tea.KeyEnter:
		var key string
		if p.qoCursor >= 0 && p.qoCursor < len(p.qoMatches) {
			key = p.qoMatches[p.qoCursor].Key
		}
		p.closeQuickOpen()
		if key == "" {
			return nil
		}
		return p.openFile(key)
	case tea.KeyUp, tea.KeyCtrlP:
		if p.qoCursor > 0 {
			p.qoCursor--
		}
		return nil
	case tea.KeyDown, tea.KeyCtrlN:
		if p.qoCursor < len(p.qoMatches)-1 {
			p.qoCursor++
		}
		return nil
	}
	var cmd tea.Cmd
	p.qoInput, cmd = p.qoInput.Update(m)
	p.matchQuickOpen()
	return cmd
}

// matchQuickOpen filters the loaded entries by a case-insensitive substring
// match on the whole key, most recent first.
func (p *Plugin) matchQuickOpen() {
	query := strings.ToLower(strings.TrimSpace(p.qoInput.Value()))
	if query == "" {
		p.qoMatches = p.qoEntries
	} else {
		matched := p.qoEntries[:0:0]
		for _, e := range p.qoEntries {
			if strings.Contains(strings.ToLower(e.Key), query) {
				matched = append(matched, e)
			}
		}
		p.qoMatches = matched
	}
	if p.qoCursor >= len(p.qoMatches) {
		p.qoCursor = len(p.qoMatches) - 1
	}
	if p.qoCursor < 0 {
		p.qoCursor = 0
	}
}

// renderQuickOpen renders the picker body: the input line and up to visible
// matched entries, file name first with the containing directory dimmed.
func (p *Plugin) renderQuickOpen(width, visible int) string {
	lines := make([]string, 0, visible+1)
	lines = append(lines, styles.TruncateLabel(p.qoInput.View(), width))

	top := 0
	if p.qoCursor >= visible {
		top = p.qoCursor - visible + 1
	}
	for i := top; i < len(p.qoMatches) && i < top+visible; i++ {
		lines = append(lines, p.renderQuickOpenEntry(p.qoMatches[i], i == p.qoCursor, width))
	}
	if len(p.qoMatches) == 0 {
		lines = append(lines, styles.Muted.Render("(no matches)"))
	}
	return strings.Join(lines, "\n")
}

func (p *Plugin) renderQuickOpenEntry(e recents.Entry, selected bool, width int) string {
	name := path.Base(e.Key)
	dir := path.Dir(e.Key)
	if selected {
		return styles.TreeSelected.Render(styles.PadLabel(styles.TruncateLabel(name+"  "+dir, width), width))
	}
	label := styles.TreeFile.Render(name)
	if dir != "." {
		rest := width - cellWidth(name) - 2
		if rest > 0 {
			label += "  " + styles.Muted.Render(styles.TruncateLabel(dir, rest))
		}
	}
	return label
}
