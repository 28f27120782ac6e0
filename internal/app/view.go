package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jdbrinton/treeline/internal/plugin"
	"github.com/jdbrinton/treeline/internal/styles"
)

const (
	headerHeight = 1
	footerHeight = 1
	minWidth     = 40
	minHeight    = 10
)

var modalBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(styles.BorderActive).
	Padding(1, 2)

// View renders the frame: header, active plugin, footer, overlays.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.width < minWidth || m.height < minHeight {
		warn := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render(warn))
	}

	contentHeight := m.height - headerHeight
	if m.showFooter {
		contentHeight -= footerHeight
	}
	if contentHeight < 0 {
		contentHeight = 0
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent(m.width, contentHeight))
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	if m.showQuitConfirm {
		return m.renderQuitConfirm()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return b.String()
}

func (m Model) renderHeader() string {
	title := styles.Title.Render(" treeline ")
	dir := styles.Muted.Render(m.workDir)
	line := title + dir
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(line)
}

func (m Model) renderContent(width, height int) string {
	p := m.ActivePlugin()
	if p == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render("No plugins loaded"))
	}
	content := p.View(width, height)
	if height == 0 {
		return ""
	}
	// MaxHeight truncates tall plugin output so it cannot push the header
	// off-screen.
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(content)
}

func (m Model) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		style := styles.ToastSuccess
		if m.statusIsError {
			style = styles.ToastError
		}
		status = style.Render(m.statusMsg)
	}

	hints := m.renderHints()
	statusWidth := lipgloss.Width(status)
	hintsWidth := lipgloss.Width(hints)
	spacing := m.width - hintsWidth - statusWidth
	if spacing < 0 {
		spacing = 0
	}
	footer := hints + strings.Repeat(" ", spacing) + status
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

type hint struct {
	key      string
	label    string
	priority int
}

// renderHints lists the bindings for the active context, most important
// first.
func (m Model) renderHints() string {
	hints := m.contextHints()
	var parts []string
	for _, h := range hints {
		parts = append(parts, styles.KeyHint.Render(h.key)+" "+styles.Muted.Render(h.label))
	}
	parts = append(parts, styles.KeyHint.Render("?")+" "+styles.Muted.Render("help"))
	parts = append(parts, styles.KeyHint.Render("q")+" "+styles.Muted.Render("quit"))
	return strings.Join(parts, " ")
}

func (m Model) contextHints() []hint {
	p := m.ActivePlugin()
	if p == nil {
		return nil
	}
	byID := make(map[string]plugin.Command)
	for _, c := range p.Commands() {
		byID[c.ID] = c
	}

	var hints []hint
	for key, id := range m.keymap.CommandsFor(m.activeContext) {
		c, ok := byID[id]
		if !ok || c.Priority == 0 {
			continue
		}
		hints = append(hints, hint{key: key, label: c.Name, priority: c.Priority})
	}
	sort.Slice(hints, func(i, j int) bool {
		if hints[i].priority != hints[j].priority {
			return hints[i].priority < hints[j].priority
		}
		return hints[i].key < hints[j].key
	})
	if len(hints) > 4 {
		hints = hints[:4]
	}
	return hints
}

func (m Model) renderQuitConfirm() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Quit treeline?"))
	b.WriteString("\n\n")
	b.WriteString(styles.KeyHint.Render("y"))
	b.WriteString(styles.Muted.Render(" quit  "))
	b.WriteString(styles.KeyHint.Render("n"))
	b.WriteString(styles.Muted.Render(" cancel"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		modalBox.Render(b.String()))
}

// renderHelp lists every binding reachable from the current context.
func (m Model) renderHelp() string {
	p := m.ActivePlugin()
	byID := make(map[string]plugin.Command)
	if p != nil {
		for _, c := range p.Commands() {
			byID[c.ID] = c
		}
	}

	type row struct{ key, desc string }
	var rows []row
	for key, id := range m.keymap.CommandsFor(m.activeContext) {
		desc := id
		if c, ok := byID[id]; ok && c.Description != "" {
			desc = c.Description
		}
		rows = append(rows, row{key: key, desc: desc})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].key < rows[j].key })

	var b strings.Builder
	b.WriteString(styles.Title.Render("Key Bindings"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s  %s\n",
			styles.KeyHint.Render(fmt.Sprintf("%-9s", r.key)),
			styles.Body.Render(r.desc)))
	}
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("esc to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		modalBox.Render(b.String()))
}
