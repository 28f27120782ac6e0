package explorer

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/mouse"
	"github.com/jdbrinton/treeline/internal/state"
)

// Hit region identifiers. Rebuilt every View.
const (
	regionTreeItem = "tree-item"
	regionTreePane = "tree-pane"
	regionViewPane = "view-pane"
	regionDivider  = "divider"
	regionTab      = "tab"
)

// handleMouse translates a raw mouse message into explorer mutations.
func (p *Plugin) handleMouse(m tea.MouseMsg) tea.Cmd {
	action := p.mouse.HandleMouse(m)
	switch action.Type {
	case mouse.ActionClick:
		if p.quickOpen {
			p.closeQuickOpen()
			return nil
		}
		return p.handleClick(m, action.Region)

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		if r := p.mouse.HitMap.Test(m.X, m.Y); r != nil {
			p.scrollRegion(r.ID, action.Delta)
		}
		return nil

	case mouse.ActionDrag:
		if action.DragRegion == regionDivider {
			p.setTreeWidth(p.mouse.DragStartValue() + action.DragDX)
		}
		return nil

	case mouse.ActionDragEnd:
		if action.DragRegion == regionDivider {
			if err := state.SetTreeWidth(p.treeWidth); err != nil {
				p.logger.Warn("persist tree width failed", "error", err)
			}
		}
		return nil
	}
	return nil
}

func (p *Plugin) handleClick(m tea.MouseMsg, r *mouse.Region) tea.Cmd {
	if r == nil {
		return nil
	}
	switch r.ID {
	case regionTreeItem:
		p.pane = paneTree
		if i, ok := r.Data.(int); ok {
			return p.clickEntry(i)
		}
	case regionTreePane:
		p.pane = paneTree
	case regionViewPane:
		p.pane = paneView
	case regionTab:
		p.pane = paneView
		if i, ok := r.Data.(int); ok && i >= 0 && i < len(p.tabs) {
			p.activeTab = i
			p.invalidateRender()
		}
	case regionDivider:
		p.mouse.StartDrag(m.X, m.Y, regionDivider, p.treeWidth)
	}
	return nil
}

func (p *Plugin) scrollRegion(id string, delta int) {
	switch id {
	case regionTreeItem, regionTreePane:
		p.treeScroll += delta
		max := len(p.rows) - 1
		if p.treeScroll > max {
			p.treeScroll = max
		}
		if p.treeScroll < 0 {
			p.treeScroll = 0
		}
	case regionViewPane, regionTab:
		if t := p.currentTab(); t != nil {
			t.scroll += delta
			if t.scroll < 0 {
				t.scroll = 0
			}
		}
	}
}

func (p *Plugin) setTreeWidth(w int) {
	min, max := 16, p.width-40
	if max < min {
		max = min
	}
	if w < min {
		w = min
	}
	if w > max {
		w = max
	}
	p.treeWidth = w
	p.invalidateRender()
}
