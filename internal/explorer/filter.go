package explorer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/styles"
)

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return ti
}

// ConsumesTextInput reports whether typed keys belong to the filter box or
// the quick-open picker instead of the app's shortcuts.
func (p *Plugin) ConsumesTextInput() bool { return p.filtering || p.quickOpen }

// handleFilterKey feeds one key into the filter box. Enter keeps the filter
// and returns focus to the tree; esc clears it.
func (p *Plugin) handleFilterKey(m tea.KeyMsg) tea.Cmd {
	switch m.Type {
	case tea.KeyEsc:
		p.filtering = false
		p.filter.Reset()
		p.filter.Blur()
		p.applyFilter()
		return nil
	case tea.KeyEnter:
		p.filtering = false
		p.filter.Blur()
		return nil
	}
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(m)
	p.applyFilter()
	return cmd
}

// applyFilter recomputes the displayed rows from the flattened tree and the
// filter query. An empty query shows everything.
func (p *Plugin) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(p.filter.Value()))
	if query == "" {
		p.rows = p.allRows
		p.clampCursor()
		return
	}
	var keep string
	if p.cursor >= 0 && p.cursor < len(p.rows) {
		keep = p.rows[p.cursor].Key
	}
	filtered := p.allRows[:0:0]
	for _, r := range p.allRows {
		if strings.Contains(strings.ToLower(r.Name), query) {
			filtered = append(filtered, r)
		}
	}
	p.rows = filtered
	if i := rowIndex(p.rows, keep); i >= 0 {
		p.cursor = i
	} else {
		p.cursor = 0
	}
	p.clampCursor()
}

// filterActive reports whether a filter query is narrowing the rows.
func (p *Plugin) filterActive() bool {
	return strings.TrimSpace(p.filter.Value()) != ""
}

// renderFilterLine renders the filter box or the active query summary.
func (p *Plugin) renderFilterLine(width int) string {
	if p.filtering {
		return styles.TruncateLabel(p.filter.View(), width)
	}
	return styles.Muted.Render(styles.TruncateLabel("/ "+p.filter.Value(), width))
}
