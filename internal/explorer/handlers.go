package explorer

import (
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/msg"
	"github.com/jdbrinton/treeline/internal/plugin"
)

func command(id string) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return commandMsg{id: id} }
	}
}

// Commands lists the explorer's key commands. Handlers bounce a commandMsg
// through the event loop so all state mutation happens in Update.
func (p *Plugin) Commands() []plugin.Command {
	return []plugin.Command{
		{ID: "cursor-down", Name: "Down", Description: "Move selection down", Category: plugin.CategoryNavigation, Handler: command("cursor-down")},
		{ID: "cursor-up", Name: "Up", Description: "Move selection up", Category: plugin.CategoryNavigation, Handler: command("cursor-up")},
		{ID: "cursor-top", Name: "Top", Description: "Jump to the first entry", Category: plugin.CategoryNavigation, Handler: command("cursor-top"), Context: "explorer-tree"},
		{ID: "cursor-bottom", Name: "Bottom", Description: "Jump to the last entry", Category: plugin.CategoryNavigation, Handler: command("cursor-bottom"), Context: "explorer-tree"},
		{ID: "expand", Name: "Expand", Description: "Expand the selected directory", Category: plugin.CategoryNavigation, Handler: command("expand"), Context: "explorer-tree"},
		{ID: "collapse", Name: "Collapse", Description: "Collapse the selected directory", Category: plugin.CategoryNavigation, Handler: command("collapse"), Context: "explorer-tree"},
		{ID: "open-file", Name: "Open", Description: "Open the selected file in a tab", Category: plugin.CategoryActions, Handler: command("open-file"), Context: "explorer-tree", Priority: 1},
		{ID: "preview-file", Name: "Preview", Description: "Preview the selected file", Category: plugin.CategoryActions, Handler: command("preview-file"), Context: "explorer-tree", Priority: 2},
		{ID: "select", Name: "Select", Description: "Open the selected entry", Category: plugin.CategoryActions, Handler: command("open-file")},
		{ID: "switch-pane", Name: "Switch", Description: "Switch between tree and document pane", Category: plugin.CategoryView, Handler: command("switch-pane")},
		{ID: "back", Name: "Back", Description: "Return focus to the tree", Category: plugin.CategoryView, Handler: command("back")},
		{ID: "refresh", Name: "Refresh", Description: "Re-read the workspace from disk", Category: plugin.CategoryActions, Handler: command("refresh")},
		{ID: "copy-path", Name: "Copy Path", Description: "Copy the absolute path of the selection", Category: plugin.CategoryActions, Handler: command("copy-path")},
		{ID: "open-external", Name: "Editor", Description: "Open the selection in $EDITOR", Category: plugin.CategoryActions, Handler: command("open-external"), Context: "explorer-tree"},
		{ID: "filter", Name: "Filter", Description: "Filter the tree by name", Category: plugin.CategorySearch, Handler: command("filter"), Context: "explorer-tree", Priority: 3},
		{ID: "quick-open", Name: "Recent", Description: "Open a recently used file", Category: plugin.CategorySearch, Handler: command("quick-open")},
		{ID: "toggle-hidden", Name: "Hidden", Description: "Show or hide dotfiles", Category: plugin.CategoryView, Handler: command("toggle-hidden"), Context: "explorer-tree"},
		{ID: "scroll-down", Name: "Scroll", Description: "Scroll the document down", Category: plugin.CategoryNavigation, Handler: command("scroll-down"), Context: "explorer-view"},
		{ID: "scroll-up", Name: "Scroll", Description: "Scroll the document up", Category: plugin.CategoryNavigation, Handler: command("scroll-up"), Context: "explorer-view"},
		{ID: "scroll-top", Name: "Top", Description: "Scroll to the top", Category: plugin.CategoryNavigation, Handler: command("scroll-top"), Context: "explorer-view"},
		{ID: "scroll-bottom", Name: "Bottom", Description: "Scroll to the bottom", Category: plugin.CategoryNavigation, Handler: command("scroll-bottom"), Context: "explorer-view"},
		{ID: "page-down", Name: "Page", Description: "Scroll down one page", Category: plugin.CategoryNavigation, Handler: command("page-down"), Context: "explorer-view"},
		{ID: "page-up", Name: "Page", Description: "Scroll up one page", Category: plugin.CategoryNavigation, Handler: command("page-up"), Context: "explorer-view"},
		{ID: "next-tab", Name: "Next Tab", Description: "Activate the next tab", Category: plugin.CategoryView, Handler: command("next-tab"), Context: "explorer-view"},
		{ID: "prev-tab", Name: "Prev Tab", Description: "Activate the previous tab", Category: plugin.CategoryView, Handler: command("prev-tab"), Context: "explorer-view"},
		{ID: "close-tab", Name: "Close", Description: "Close the active tab", Category: plugin.CategoryActions, Handler: command("close-tab"), Context: "explorer-view", Priority: 1},
		{ID: "pin-tab", Name: "Pin", Description: "Keep the preview tab open", Category: plugin.CategoryActions, Handler: command("pin-tab"), Context: "explorer-view", Priority: 2},
	}
}

func (p *Plugin) runCommand(id string) tea.Cmd {
	switch id {
	case "cursor-down":
		p.moveCursor(1)
	case "cursor-up":
		p.moveCursor(-1)
	case "cursor-top":
		p.cursor = 0
	case "cursor-bottom":
		p.cursor = len(p.rows) - 1
		p.clampCursor()
	case "expand":
		if r, ok := p.selectedRow(); ok && r.IsDir() && !r.Expanded {
			return p.toggleDir(r)
		}
	case "collapse":
		return p.collapseSelection()
	case "open-file":
		if r, ok := p.selectedRow(); ok {
			if r.IsDir() {
				return p.toggleDir(r)
			}
			return p.openFile(r.Key)
		}
	case "preview-file":
		if r, ok := p.selectedRow(); ok && !r.IsDir() {
			return p.previewFile(r.Key)
		}
	case "switch-pane":
		if p.pane == paneTree {
			p.pane = paneView
		} else {
			p.pane = paneTree
		}
	case "back":
		p.pane = paneTree
	case "refresh":
		return p.refreshCmd()
	case "copy-path":
		return p.copyPath()
	case "open-external":
		return p.openExternal()
	case "filter":
		p.pane = paneTree
		p.filtering = true
		return p.filter.Focus()
	case "quick-open":
		return p.startQuickOpen()
	case "toggle-hidden":
		p.handle.SetShowHidden(!p.handle.ShowHidden())
		return p.refreshCmd()
	case "scroll-down":
		p.scrollRegion(regionViewPane, 1)
	case "scroll-up":
		p.scrollRegion(regionViewPane, -1)
	case "scroll-top":
		if t := p.currentTab(); t != nil {
			t.scroll = 0
		}
	case "scroll-bottom":
		if t := p.currentTab(); t != nil {
			t.scroll = 1 << 30 // View clamps to the last page
		}
	case "page-down":
		p.scrollRegion(regionViewPane, p.height/2)
	case "page-up":
		p.scrollRegion(regionViewPane, -p.height/2)
	case "next-tab":
		p.cycleTab(1)
	case "prev-tab":
		p.cycleTab(-1)
	case "close-tab":
		return p.closeActiveTab()
	case "pin-tab":
		if t := p.currentTab(); t != nil && t.preview {
			p.ctx.Workspace.Promote()
		}
	}
	return nil
}

func (p *Plugin) selectedRow() (Row, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return Row{}, false
	}
	return p.rows[p.cursor], true
}

func (p *Plugin) moveCursor(delta int) {
	p.cursor += delta
	p.clampCursor()
}

// collapseSelection collapses an expanded directory, or jumps to the parent
// when the selection cannot collapse.
func (p *Plugin) collapseSelection() tea.Cmd {
	r, ok := p.selectedRow()
	if !ok {
		return nil
	}
	if r.IsDir() && r.Expanded {
		return p.toggleDir(r)
	}
	parent := ""
	if i := strings.LastIndexByte(r.Key, '/'); i >= 0 {
		parent = r.Key[:i]
	}
	if i := rowIndex(p.rows, parent); i >= 0 {
		p.cursor = i
	}
	return nil
}

func (p *Plugin) cycleTab(delta int) {
	if len(p.tabs) == 0 {
		return
	}
	p.activeTab = (p.activeTab + delta + len(p.tabs)) % len(p.tabs)
	p.invalidateRender()
}

func (p *Plugin) closeActiveTab() tea.Cmd {
	t := p.currentTab()
	if t == nil {
		return nil
	}
	if err := p.ctx.Workspace.CloseView(t); err != nil {
		p.logger.Debug("close tab failed", "key", t.key, "error", err)
	}
	p.invalidateRender()
	return nil
}

// targetKey is the key actions like copy-path operate on: the active tab
// when the document pane is focused, otherwise the tree selection.
func (p *Plugin) targetKey() (string, bool) {
	if p.pane == paneView {
		if t := p.currentTab(); t != nil {
			return t.key, true
		}
		return "", false
	}
	r, ok := p.selectedRow()
	return r.Key, ok
}

func (p *Plugin) copyPath() tea.Cmd {
	key, ok := p.targetKey()
	if !ok {
		return nil
	}
	abs := p.absPath(key)
	if err := clipboard.WriteAll(abs); err != nil {
		p.logger.Warn("clipboard write failed", "error", err)
		return msg.ShowError("clipboard unavailable", 3*time.Second)
	}
	return msg.ShowToast("copied "+abs, 2*time.Second)
}

func (p *Plugin) openExternal() tea.Cmd {
	r, ok := p.selectedRow()
	if !ok || r.IsDir() {
		return nil
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	path := p.absPath(r.Key)
	return func() tea.Msg {
		return plugin.OpenFileMsg{Editor: editor, Path: path}
	}
}
