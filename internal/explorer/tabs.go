package explorer

import (
	"path"
	"strings"

	"github.com/jdbrinton/treeline/internal/styles"
	"github.com/jdbrinton/treeline/internal/workspace"
)

// Tab is one open document in the right pane. It is also the view ref the
// workspace hands back, so closing a tab through the workspace and finding
// it in the strip use the same identity.
type Tab struct {
	key     string
	preview bool
	scroll  int
}

// Key returns the document key the tab displays.
func (t *Tab) Key() string { return t.key }

// Preview reports whether the tab is the transient preview tab.
func (t *Tab) Preview() bool { return t.preview }

// Label returns the tab's display label, the base name of its key.
func (t *Tab) Label() string {
	if t.key == "" {
		return "(root)"
	}
	return path.Base(t.key)
}

// CreateView appends a tab for the key and makes it active.
func (p *Plugin) CreateView(kind workspace.ViewKind, key string) workspace.ViewRef {
	t := &Tab{key: key, preview: kind == workspace.ViewPreview}
	p.tabs = append(p.tabs, t)
	p.activeTab = len(p.tabs) - 1
	return t
}

// CloseView removes the tab from the strip. Closing an unknown ref is a
// no-op; the workspace already rejected stale refs.
func (p *Plugin) CloseView(ref workspace.ViewRef) {
	i := p.tabIndex(ref)
	if i < 0 {
		return
	}
	p.tabs = append(p.tabs[:i], p.tabs[i+1:]...)
	switch {
	case len(p.tabs) == 0:
		p.activeTab = -1
	case p.activeTab > i:
		p.activeTab--
	case p.activeTab >= len(p.tabs):
		p.activeTab = len(p.tabs) - 1
	}
}

// MarkPermanent clears the tab's preview styling.
func (p *Plugin) MarkPermanent(ref workspace.ViewRef) {
	if t, ok := ref.(*Tab); ok {
		t.preview = false
	}
}

// ActivateView focuses the tab.
func (p *Plugin) ActivateView(ref workspace.ViewRef) {
	if i := p.tabIndex(ref); i >= 0 {
		p.activeTab = i
	}
}

func (p *Plugin) tabIndex(ref workspace.ViewRef) int {
	for i, t := range p.tabs {
		if workspace.ViewRef(t) == ref {
			return i
		}
	}
	return -1
}

func (p *Plugin) currentTab() *Tab {
	if p.activeTab < 0 || p.activeTab >= len(p.tabs) {
		return nil
	}
	return p.tabs[p.activeTab]
}

// renderTabBar renders the strip and registers one hit region per tab.
func (p *Plugin) renderTabBar(width, originX, originY int) string {
	if len(p.tabs) == 0 {
		return styles.Muted.Render("no open files")
	}
	var b strings.Builder
	x := 0
	for i, t := range p.tabs {
		dirty := false
		if m := p.ctx.Workspace.Models().Get(t.key); m != nil {
			dirty = m.Dirty()
		}
		label := styles.TruncateLabel(t.Label(), 24)
		cell := styles.RenderTab(label, i == p.activeTab, t.preview, dirty)
		w := cellWidth(cell)
		if x+w > width {
			break
		}
		p.mouse.HitMap.AddRect(regionTab, originX+x, originY, w, 1, i)
		b.WriteString(cell)
		x += w
	}
	return b.String()
}
