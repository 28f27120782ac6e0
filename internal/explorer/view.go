package explorer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jdbrinton/treeline/internal/styles"
)

func cellWidth(s string) int { return ansi.StringWidth(s) }

// View renders the split: tree pane, divider, document pane. The hit map is
// rebuilt on every render; coarse pane regions go in first so finer regions
// registered by the pane renderers win the hit test.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height
	if width < 20 || height < 4 {
		return ""
	}
	p.mouse.Clear()

	treeW := p.treeWidth
	if treeW > width-20 {
		treeW = width - 20
	}
	if treeW < 16 {
		treeW = 16
	}
	viewW := width - treeW - 1

	p.mouse.HitMap.AddRect(regionTreePane, 0, 0, treeW, height, nil)
	p.mouse.HitMap.AddRect(regionDivider, treeW, 0, 1, height, nil)
	p.mouse.HitMap.AddRect(regionViewPane, treeW+1, 0, viewW, height, nil)

	treePane := p.renderTreePane(treeW, height)
	divider := p.renderDivider(height)
	viewPane := p.renderViewPane(viewW, height, treeW+1)

	return lipgloss.JoinHorizontal(lipgloss.Top, treePane, divider, viewPane)
}

func (p *Plugin) renderDivider(height int) string {
	col := make([]string, height)
	for i := range col {
		col[i] = styles.Subtle.Render("│")
	}
	return strings.Join(col, "\n")
}

// renderTreePane renders the header and the visible window of rows, one hit
// region per row.
func (p *Plugin) renderTreePane(width, height int) string {
	style := styles.PanelInactive
	if p.focused && p.pane == paneTree {
		style = styles.PanelActive
	}
	// border eats 2 columns and 2 rows, padding 2 more columns
	innerW := width - 4
	innerH := height - 2

	header := styles.PanelHeader.Render(styles.TruncateLabel(filepath.Base(p.handle.Root()), innerW))
	if p.lastErr != nil {
		header = styles.TreeError.Render("! ") + header
	}

	rowsTop := 3 // border, header, header margin
	visible := innerH - 2
	if p.quickOpen {
		body := header + "\n" + p.renderQuickOpen(innerW, visible-1)
		return style.Width(width - 2).Height(innerH).Render(body)
	}
	var filterLine string
	if p.filtering || p.filterActive() {
		filterLine = p.renderFilterLine(innerW) + "\n"
		rowsTop++
		visible--
	}
	if visible < 1 {
		visible = 1
	}
	p.scrollCursorIntoView(visible)

	lines := make([]string, 0, visible)
	for i := p.treeScroll; i < len(p.rows) && len(lines) < visible; i++ {
		p.mouse.HitMap.AddRect(regionTreeItem, 1, rowsTop+len(lines), width-2, 1, i)
		lines = append(lines, p.renderRow(p.rows[i], i == p.cursor, innerW))
	}
	if len(p.rows) == 0 {
		lines = append(lines, styles.Muted.Render("(empty)"))
	}

	body := header + "\n" + filterLine + strings.Join(lines, "\n")
	return style.Width(width - 2).Height(innerH).Render(body)
}

func (p *Plugin) scrollCursorIntoView(visible int) {
	if p.cursor < p.treeScroll {
		p.treeScroll = p.cursor
	}
	if p.cursor >= p.treeScroll+visible {
		p.treeScroll = p.cursor - visible + 1
	}
	if p.treeScroll < 0 {
		p.treeScroll = 0
	}
}

func (p *Plugin) renderRow(r Row, selected bool, width int) string {
	indent := strings.Repeat("  ", r.Depth)
	icon := "  "
	if r.IsDir() {
		if r.Expanded {
			icon = "- "
		} else {
			icon = "+ "
		}
	}
	label := styles.TruncateLabel(r.Name, width-len(indent)-2)

	if selected {
		line := styles.PadLabel(indent+icon+label, width)
		return styles.TreeSelected.Render(line)
	}
	nameStyle := styles.TreeFile
	if r.IsDir() {
		nameStyle = styles.TreeDir
	}
	return indent + styles.TreeIcon.Render(icon) + nameStyle.Render(label)
}

// renderViewPane renders the tab strip and the active document window.
func (p *Plugin) renderViewPane(width, height, originX int) string {
	style := styles.PanelInactive
	if p.focused && p.pane == paneView {
		style = styles.PanelActive
	}
	innerW := width - 4
	innerH := height - 2

	// tab strip sits on the first inner row
	tabBar := p.renderTabBar(innerW, originX+2, 1)

	visible := innerH - 2
	if visible < 1 {
		visible = 1
	}
	var content string
	t := p.currentTab()
	if t == nil {
		content = styles.Muted.Render("select a file to preview, enter or double-click to open")
	} else {
		lines := p.renderContent(t, innerW-7)
		maxScroll := len(lines) - visible
		if maxScroll < 0 {
			maxScroll = 0
		}
		if t.scroll > maxScroll {
			t.scroll = maxScroll
		}
		end := t.scroll + visible
		if end > len(lines) {
			end = len(lines)
		}
		content = strings.Join(lines[t.scroll:end], "\n")
		if maxScroll > 0 {
			pct := t.scroll * 100 / maxScroll
			content += "\n" + styles.Muted.Render(fmt.Sprintf("%d%%", pct))
		}
	}

	body := tabBar + "\n\n" + content
	return style.Width(width - 2).Height(innerH).Render(body)
}
