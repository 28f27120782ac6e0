// Package explorer is the file tree plugin: a lazily loaded directory tree
// on the left, a tab strip and document pane on the right. Its tab strip is
// the workspace's view provider, so all open/preview/promote policy flows
// through the workspace and lands here as tab mutations.
package explorer

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jdbrinton/treeline/internal/click"
	"github.com/jdbrinton/treeline/internal/config"
	"github.com/jdbrinton/treeline/internal/mouse"
	"github.com/jdbrinton/treeline/internal/msg"
	"github.com/jdbrinton/treeline/internal/plugin"
	"github.com/jdbrinton/treeline/internal/recents"
	"github.com/jdbrinton/treeline/internal/state"
	"github.com/jdbrinton/treeline/internal/tree"
	"github.com/jdbrinton/treeline/internal/vfs"
	"github.com/jdbrinton/treeline/internal/workspace"
)

const pluginID = "explorer"

// activePane selects which half of the split owns keyboard focus.
type activePane int

const (
	paneTree activePane = iota
	paneView
)

// Async messages. Every one carries the epoch it was started under so
// results from a previous workspace root are dropped.
type (
	treeReadyMsg struct {
		epoch uint64
		tree  *tree.Tree
		err   error
	}

	refreshTickMsg struct{ epoch uint64 }

	snapshotMsg struct {
		epoch uint64
		fresh *tree.Node
		err   error
	}

	watchEventMsg struct{ epoch uint64 }

	clickTimeoutMsg struct {
		epoch uint64
		key   string
		token uint64
	}

	// commandMsg routes a keymap command back into Update, where plugin
	// state can be mutated.
	commandMsg struct{ id string }
)

func (m treeReadyMsg) GetEpoch() uint64    { return m.epoch }
func (m refreshTickMsg) GetEpoch() uint64  { return m.epoch }
func (m snapshotMsg) GetEpoch() uint64     { return m.epoch }
func (m watchEventMsg) GetEpoch() uint64   { return m.epoch }
func (m clickTimeoutMsg) GetEpoch() uint64 { return m.epoch }

// Plugin is the explorer pane.
type Plugin struct {
	ctx    *plugin.Context
	logger *slog.Logger

	cfg        config.ExplorerConfig
	maxPreview int

	handle  *vfs.OS
	exp     *tree.ExpansionSet
	tr      *tree.Tree
	recon   *tree.Reconciler
	visual  *tree.Visual
	lastErr error

	// allRows is the full flattening of the visual tree; rows is what the
	// pane displays after the filter is applied.
	allRows []Row
	rows    []Row

	filter    textinput.Model
	filtering bool

	// quick-open picker over the recents store
	quickOpen bool
	qoInput   textinput.Model
	qoEntries []recents.Entry
	qoMatches []recents.Entry
	qoCursor  int

	disamb  *click.Disambiguator
	mouse   *mouse.Handler
	watcher *Watcher
	recents *recents.Store

	tabs      []*Tab
	activeTab int
	render    *rendered

	focused    bool
	pane       activePane
	cursor     int
	treeScroll int

	width, height int
	treeWidth     int

	refreshing bool
}

// New creates the explorer over the given store handle. rec may be nil when
// the recents store is disabled.
func New(cfg *config.Config, handle *vfs.OS, rec *recents.Store) *Plugin {
	return &Plugin{
		cfg:        cfg.Explorer,
		maxPreview: cfg.Explorer.PreviewMaxBytes,
		handle:     handle,
		exp:        tree.NewExpansionSet(),
		filter:     newFilterInput(),
		qoInput:    newQuickOpenInput(),
		disamb:     click.New(cfg.Explorer.ClickWindow),
		mouse:      mouse.NewHandler(),
		recents:    rec,
		activeTab:  -1,
		treeWidth:  cfg.UI.TreeWidth,
	}
}

func (p *Plugin) ID() string   { return pluginID }
func (p *Plugin) Name() string { return "Explorer" }
func (p *Plugin) Icon() string { return "=" }

func (p *Plugin) IsFocused() bool   { return p.focused }
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// FocusContext names the key binding context for the focused pane.
func (p *Plugin) FocusContext() string {
	if p.pane == paneView {
		return "explorer-view"
	}
	return "explorer-tree"
}

// Init restores persisted layout state and wires the workspace observer
// that re-renders when a preview promotes.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	p.logger = ctx.Logger.With("plugin", pluginID)

	if w := state.GetTreeWidth(); w > 0 {
		p.treeWidth = w
	}
	saved := state.GetExplorerState()
	p.exp.Restore(saved.ExpandedDirs)
	p.handle.SetShowHidden(p.cfg.ShowHidden)

	p.ctx.Workspace.OnPromote(func(key string) {
		p.logger.Debug("preview promoted", "key", key)
	})
	p.ctx.Workspace.OnActuate(func(a workspace.Actuation) {
		if a.Intent == workspace.ViewPermanent {
			p.recordRecent(a.Key)
		}
	})
	return nil
}

// Start kicks off the initial tree load, the watcher, and the periodic
// refresh tick.
func (p *Plugin) Start() tea.Cmd {
	cmds := []tea.Cmd{p.loadTreeCmd()}
	if p.cfg.Watcher {
		w, err := NewWatcher(200 * time.Millisecond)
		if err != nil {
			p.logger.Warn("watcher unavailable", "error", err)
		} else {
			p.watcher = w
			if err := w.Watch(p.handle.Root()); err != nil {
				p.logger.Warn("watch root failed", "error", err)
			}
			cmds = append(cmds, p.watchCmd())
		}
	}
	cmds = append(cmds, p.tickCmd())
	return tea.Batch(cmds...)
}

// Stop persists layout state and releases the watcher.
func (p *Plugin) Stop() {
	p.saveState()
	if p.watcher != nil {
		p.watcher.Close()
	}
}

func (p *Plugin) saveState() {
	var selected string
	if p.cursor >= 0 && p.cursor < len(p.rows) {
		selected = p.rows[p.cursor].Key
	}
	var open []string
	for _, t := range p.tabs {
		if !t.preview {
			open = append(open, t.key)
		}
	}
	previewKey, _ := p.ctx.Workspace.PreviewKey()
	var activeKey string
	if t := p.currentTab(); t != nil {
		activeKey = t.key
	}
	if err := state.SetExplorerState(state.ExplorerState{
		SelectedKey:  selected,
		TreeScroll:   p.treeScroll,
		ExpandedDirs: p.exp.Keys(),
		OpenTabs:     open,
		PreviewKey:   previewKey,
		ActiveTab:    activeKey,
	}); err != nil {
		p.logger.Warn("persist explorer state failed", "error", err)
	}
	if err := state.SetTreeWidth(p.treeWidth); err != nil {
		p.logger.Warn("persist tree width failed", "error", err)
	}
}

// Update handles one message.
func (p *Plugin) Update(m tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch m := m.(type) {
	case tea.WindowSizeMsg:
		p.width = m.Width
		p.height = m.Height
		return p, nil

	case tea.KeyMsg:
		if p.quickOpen {
			return p, p.handleQuickOpenKey(m)
		}
		if p.filtering {
			return p, p.handleFilterKey(m)
		}
		return p, nil

	case tea.MouseMsg:
		if !p.focused {
			return p, nil
		}
		return p, p.handleMouse(m)

	case commandMsg:
		return p, p.runCommand(m.id)

	case treeReadyMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		return p, p.handleTreeReady(m)

	case refreshTickMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		return p, tea.Batch(p.refreshCmd(), p.tickCmd())

	case watchEventMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		return p, tea.Batch(p.refreshCmd(), p.watchCmd())

	case snapshotMsg:
		if plugin.IsStale(p.ctx, m) {
			// The walk that was in flight is done even if its result is
			// from a previous epoch; without this a stale drop would wedge
			// the refresh guard forever.
			p.refreshing = false
			return p, nil
		}
		return p, p.handleSnapshot(m)

	case clickTimeoutMsg:
		if plugin.IsStale(p.ctx, m) {
			return p, nil
		}
		if p.disamb.Timeout(m.key, m.token) == click.IntentPreview {
			return p, p.previewFile(m.key)
		}
		return p, nil
	}
	return p, nil
}

// handleTreeReady installs the loaded tree, builds the initial visual tree,
// and restores the previous session's tabs.
func (p *Plugin) handleTreeReady(m treeReadyMsg) tea.Cmd {
	if m.err != nil {
		p.lastErr = m.err
		p.logger.Error("open tree failed", "error", m.err)
		return msg.ShowError("cannot read workspace root", 5*time.Second)
	}
	p.lastErr = nil
	p.tr = m.tree
	p.recon = tree.NewReconciler(p.exp)
	p.visual = p.recon.Build(p.tr.Root)
	p.recon.Reset()
	p.rebuildRows()

	saved := state.GetExplorerState()
	for _, key := range saved.OpenTabs {
		if _, err := p.ctx.Workspace.CommitOpen(context.Background(), key); err != nil {
			p.logger.Debug("restore tab failed", "key", key, "error", err)
		}
	}
	if saved.PreviewKey != "" {
		if _, err := p.ctx.Workspace.RequestPreview(context.Background(), saved.PreviewKey); err != nil {
			p.logger.Debug("restore preview failed", "key", saved.PreviewKey, "error", err)
		}
	}
	if saved.ActiveTab != "" {
		for i, t := range p.tabs {
			if t.key == saved.ActiveTab {
				p.activeTab = i
				break
			}
		}
	}
	if i := rowIndex(p.rows, saved.SelectedKey); i >= 0 {
		p.cursor = i
		p.treeScroll = saved.TreeScroll
	}
	p.clampCursor()

	// Re-expanding saved directories needs their enumerations; do it once
	// through a refresh so the deep expansion state survives restarts.
	return p.refreshCmd()
}

// handleSnapshot applies a background refresh snapshot to the live tree and
// visual tree.
func (p *Plugin) handleSnapshot(m snapshotMsg) tea.Cmd {
	p.refreshing = false
	if m.err != nil {
		p.lastErr = m.err
		p.logger.Warn("refresh failed", "error", m.err)
		return nil
	}
	p.lastErr = nil
	p.recon.Reset()
	p.visual = p.recon.Reconcile(p.visual, p.tr.Root, m.fresh)
	p.tr.ApplyRefresh(m.fresh)

	// Entries pruned by the refresh cannot resolve a pending click.
	for _, op := range p.recon.Ops() {
		if op.Type == tree.OpDetach {
			p.disamb.Cancel(op.Key)
		}
	}
	p.rebuildRows()
	p.clampCursor()
	p.invalidateRender()
	p.syncWatches()
	return nil
}

// rebuildRows reflattens the visual tree, keeping the cursor on the same
// key when it survives.
func (p *Plugin) rebuildRows() {
	var selected string
	if p.cursor >= 0 && p.cursor < len(p.rows) {
		selected = p.rows[p.cursor].Key
	}
	p.allRows = flattenVisual(p.visual)
	p.applyFilter()
	if i := rowIndex(p.rows, selected); i >= 0 {
		p.cursor = i
	}
	p.clampCursor()
}

func (p *Plugin) clampCursor() {
	if p.cursor >= len(p.rows) {
		p.cursor = len(p.rows) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.treeScroll > p.cursor {
		p.treeScroll = p.cursor
	}
	if p.treeScroll < 0 {
		p.treeScroll = 0
	}
}

// syncWatches keeps the watcher aligned with the set of expanded, loaded
// directories.
func (p *Plugin) syncWatches() {
	if p.watcher == nil || p.tr == nil {
		return
	}
	for _, key := range p.exp.Keys() {
		n := p.tr.Find(key)
		if n == nil || !n.IsDir() || !n.Loaded {
			continue
		}
		if err := p.watcher.Watch(p.absPath(key)); err != nil {
			p.logger.Debug("watch failed", "key", key, "error", err)
		}
	}
}

func (p *Plugin) absPath(key string) string {
	if key == "" {
		return p.handle.Root()
	}
	return filepath.Join(p.handle.Root(), filepath.FromSlash(key))
}

// Commands

func (p *Plugin) loadTreeCmd() tea.Cmd {
	epoch := p.ctx.Epoch
	handle, exp := p.handle, p.exp
	return func() tea.Msg {
		t, err := tree.Open(context.Background(), handle, exp)
		return treeReadyMsg{epoch: epoch, tree: t, err: err}
	}
}

func (p *Plugin) tickCmd() tea.Cmd {
	epoch := p.ctx.Epoch
	return tea.Tick(p.cfg.RefreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{epoch: epoch}
	})
}

// refreshCmd starts a background snapshot walk. At most one refresh runs at
// a time; the next tick retries. The walk state is captured on the event
// loop so the goroutine never touches the live tree or expansion set.
func (p *Plugin) refreshCmd() tea.Cmd {
	if p.tr == nil || p.refreshing {
		return nil
	}
	p.refreshing = true
	epoch, job := p.ctx.Epoch, p.tr.BeginRefresh()
	return func() tea.Msg {
		fresh, err := job.Run(context.Background())
		return snapshotMsg{epoch: epoch, fresh: fresh, err: err}
	}
}

func (p *Plugin) watchCmd() tea.Cmd {
	epoch, w := p.ctx.Epoch, p.watcher
	return func() tea.Msg {
		if _, ok := <-w.Notify(); !ok {
			return nil
		}
		return watchEventMsg{epoch: epoch}
	}
}

func (p *Plugin) clickTimeoutCmd(key string, token uint64) tea.Cmd {
	epoch := p.ctx.Epoch
	return tea.Tick(p.disamb.Window(), func(time.Time) tea.Msg {
		return clickTimeoutMsg{epoch: epoch, key: key, token: token}
	})
}

// recordRecent records a committed open in the recents store off the event
// loop.
func (p *Plugin) recordRecent(key string) {
	if p.recents == nil {
		return
	}
	rec, logger := p.recents, p.logger
	go func() {
		if err := rec.Touch(key); err != nil {
			logger.Debug("record recent failed", "key", key, "error", err)
		}
	}()
}

// previewFile opens key in the preview slot.
func (p *Plugin) previewFile(key string) tea.Cmd {
	if _, err := p.ctx.Workspace.RequestPreview(context.Background(), key); err != nil {
		return p.reportOpenError(key, err)
	}
	p.invalidateRender()
	return nil
}

// openFile opens key as a permanent tab, promoting a matching preview.
func (p *Plugin) openFile(key string) tea.Cmd {
	if _, err := p.ctx.Workspace.CommitOpen(context.Background(), key); err != nil {
		return p.reportOpenError(key, err)
	}
	p.invalidateRender()
	return nil
}

func (p *Plugin) reportOpenError(key string, err error) tea.Cmd {
	p.logger.Warn("open failed", "key", key, "error", err)
	var re *vfs.ReadError
	if errors.As(err, &re) {
		return msg.ShowError("cannot read "+key, 4*time.Second)
	}
	return msg.ShowError("cannot open "+key, 4*time.Second)
}

// toggleDir expands or collapses the directory row.
func (p *Plugin) toggleDir(r Row) tea.Cmd {
	n := p.tr.Find(r.Key)
	if n == nil {
		return nil
	}
	if r.Expanded {
		p.tr.Collapse(n)
	} else {
		if err := p.tr.Expand(context.Background(), n); err != nil {
			p.lastErr = err
			p.logger.Warn("expand failed", "key", r.Key, "error", err)
			return msg.ShowError("cannot read "+r.Key, 4*time.Second)
		}
		if p.watcher != nil {
			if err := p.watcher.Watch(p.absPath(r.Key)); err != nil {
				p.logger.Debug("watch failed", "key", r.Key, "error", err)
			}
		}
	}
	p.recon.Reset()
	p.visual = p.recon.Reconcile(p.visual, p.tr.Root, p.tr.Root)
	p.rebuildRows()
	p.clampCursor()
	return nil
}

// clickEntry feeds one click on a row into the disambiguator. Directories
// toggle immediately; only files disambiguate.
func (p *Plugin) clickEntry(i int) tea.Cmd {
	if i < 0 || i >= len(p.rows) {
		return nil
	}
	p.cursor = i
	r := p.rows[i]
	if r.IsDir() {
		return p.toggleDir(r)
	}
	res := p.disamb.Click(r.Key)
	switch {
	case res.Intent == click.IntentCommit:
		return p.openFile(r.Key)
	case res.ScheduleTimeout:
		return p.clickTimeoutCmd(r.Key, res.Token)
	}
	return nil
}
