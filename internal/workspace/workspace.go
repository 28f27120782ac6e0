package workspace

import (
	"context"
	"log/slog"

	"github.com/jdbrinton/treeline/internal/editor"
	"github.com/jdbrinton/treeline/internal/vfs"
)

// viewEntry is the workspace's record of one open view.
type viewEntry struct {
	ref  ViewRef
	key  string
	kind ViewKind
}

// Workspace is the explicit session context shared by the components that
// used to be wired through singletons: the preview slot, the open-view
// registry, and the model cache. All mutation happens on the event loop;
// invariants are re-checked after every await since shared state may have
// moved during the suspension.
type Workspace struct {
	handle   vfs.Handle
	provider ViewProvider
	cache    *editor.ModelCache
	logger   *slog.Logger

	views []*viewEntry

	// preview slot: at most one transient view. When set, slotView is
	// attached and marked preview.
	slotKey  string
	slotView ViewRef

	// keys whose model we already subscribed to for edit-promotion
	subscribed map[string]struct{}

	// onPromote observers, fired after a preview becomes permanent
	onPromote []func(key string)

	// onActuate observers, fired after every preview or commit open
	onActuate []func(Actuation)
}

// Actuation reports one document actuation through the workspace: the key
// that was opened and the intent it carried.
type Actuation struct {
	Key    string
	Intent ViewKind
}

// New creates a workspace over the given store handle and view provider.
func New(handle vfs.Handle, provider ViewProvider, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{
		handle:     handle,
		provider:   provider,
		cache:      editor.NewModelCache(),
		logger:     logger,
		subscribed: make(map[string]struct{}),
	}
}

// Models exposes the shared model cache.
func (w *Workspace) Models() *editor.ModelCache { return w.cache }

// Handle exposes the store handle the workspace reads documents from.
func (w *Workspace) Handle() vfs.Handle { return w.handle }

// PreviewKey returns the key held by the preview slot, if any.
func (w *Workspace) PreviewKey() (string, bool) {
	return w.slotKey, w.slotView != nil
}

// ViewCount returns the number of open views.
func (w *Workspace) ViewCount() int { return len(w.views) }

// Views returns the open view refs in creation order.
func (w *Workspace) Views() []ViewRef {
	out := make([]ViewRef, len(w.views))
	for i, e := range w.views {
		out[i] = e.ref
	}
	return out
}

// IsPreview reports whether the given ref is the current preview view.
func (w *Workspace) IsPreview(ref ViewRef) bool {
	return w.slotView != nil && w.slotView == ref
}

// OnPromote registers an observer fired whenever a preview is promoted.
func (w *Workspace) OnPromote(fn func(key string)) {
	w.onPromote = append(w.onPromote, fn)
}

// OnActuate registers an observer fired after every successful
// RequestPreview or CommitOpen, including ones that reuse an existing view.
func (w *Workspace) OnActuate(fn func(Actuation)) {
	w.onActuate = append(w.onActuate, fn)
}

func (w *Workspace) actuated(key string, intent ViewKind) {
	for _, fn := range w.onActuate {
		fn(Actuation{Key: key, Intent: intent})
	}
}

// RequestPreview opens key in the preview slot. Reusing the slot for its
// current key just re-activates the view; a different key closes the held
// view first. The model is loaded before any existing view is touched so a
// failed load leaves the workspace exactly as it was.
func (w *Workspace) RequestPreview(ctx context.Context, key string) (ViewRef, error) {
	if w.slotView != nil && w.slotKey == key {
		w.provider.ActivateView(w.slotView)
		w.actuated(key, ViewPreview)
		return w.slotView, nil
	}

	if _, err := w.openModel(ctx, key); err != nil {
		return nil, err
	}
	// Re-check the slot: it may have changed while the load was in flight.
	if w.slotView != nil && w.slotKey == key {
		w.provider.ActivateView(w.slotView)
		w.actuated(key, ViewPreview)
		return w.slotView, nil
	}

	if w.slotView != nil {
		w.closeRef(w.slotView)
	}

	ref := w.provider.CreateView(ViewPreview, key)
	w.views = append(w.views, &viewEntry{ref: ref, key: key, kind: ViewPreview})
	w.slotKey = key
	w.slotView = ref
	w.provider.ActivateView(ref)
	w.actuated(key, ViewPreview)
	return ref, nil
}

// CommitOpen opens key as a permanent view: reactivating an existing
// permanent view, promoting the slot when it already previews this key, or
// creating a fresh permanent view bypassing the slot.
func (w *Workspace) CommitOpen(ctx context.Context, key string) (ViewRef, error) {
	if e := w.findPermanent(key); e != nil {
		w.provider.ActivateView(e.ref)
		w.actuated(key, ViewPermanent)
		return e.ref, nil
	}

	if w.slotView != nil && w.slotKey == key {
		ref, _ := w.Promote()
		w.provider.ActivateView(ref)
		w.actuated(key, ViewPermanent)
		return ref, nil
	}

	if _, err := w.openModel(ctx, key); err != nil {
		return nil, err
	}
	if e := w.findPermanent(key); e != nil {
		w.provider.ActivateView(e.ref)
		w.actuated(key, ViewPermanent)
		return e.ref, nil
	}

	// A commit open takes over the screen estate a preview was using: the
	// held preview (necessarily a different key here) is closed.
	if w.slotView != nil {
		w.closeRef(w.slotView)
	}

	ref := w.provider.CreateView(ViewPermanent, key)
	w.views = append(w.views, &viewEntry{ref: ref, key: key, kind: ViewPermanent})
	w.provider.ActivateView(ref)
	w.actuated(key, ViewPermanent)
	return ref, nil
}

// Promote marks the held preview permanent and empties the slot without
// closing the view; ownership transfers to the regular workspace. Promoting
// an empty slot is a no-op.
func (w *Workspace) Promote() (ViewRef, bool) {
	if w.slotView == nil {
		return nil, false
	}
	ref := w.slotView
	key := w.slotKey
	if e := w.find(ref); e != nil {
		e.kind = ViewPermanent
	}
	w.provider.MarkPermanent(ref)
	w.slotView = nil
	w.slotKey = ""
	for _, fn := range w.onPromote {
		fn(key)
	}
	return ref, true
}

// CloseView closes a view. Closing the last view of a key releases its
// model. Closing a view that is already gone is a stale reference and a
// no-op.
func (w *Workspace) CloseView(ref ViewRef) error {
	if w.find(ref) == nil {
		return &StaleReferenceError{Key: ref.Key()}
	}
	w.closeRef(ref)
	return nil
}

// CloseAll closes every open view, releasing all models.
func (w *Workspace) CloseAll() {
	for len(w.views) > 0 {
		w.closeRef(w.views[len(w.views)-1].ref)
	}
}

// openModel loads (or reuses) the shared model for key, subscribing it for
// edit-driven promotion the first time.
func (w *Workspace) openModel(ctx context.Context, key string) (*editor.Model, error) {
	m, err := w.cache.GetOrCreate(ctx, key, func(ctx context.Context) ([]byte, error) {
		return w.handle.ReadFile(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	if _, ok := w.subscribed[key]; !ok {
		w.subscribed[key] = struct{}{}
		m.OnEdit(w.promoteIfPreviewed)
	}
	return m, nil
}

// promoteIfPreviewed promotes the slot when the edited document is the one
// being previewed. Any user edit makes a preview permanent.
func (w *Workspace) promoteIfPreviewed(key string) {
	if w.slotView != nil && w.slotKey == key {
		w.logger.Debug("promoting preview on edit", "key", key)
		w.Promote()
	}
}

// closeRef detaches and disposes one view and its model refcount share.
func (w *Workspace) closeRef(ref ViewRef) {
	e := w.find(ref)
	if e == nil {
		return
	}
	w.provider.CloseView(ref)
	w.remove(e)
	if w.slotView == ref {
		w.slotView = nil
		w.slotKey = ""
	}
	if w.countKey(e.key) == 0 {
		w.cache.Release(e.key)
		delete(w.subscribed, e.key)
	}
}

func (w *Workspace) find(ref ViewRef) *viewEntry {
	for _, e := range w.views {
		if e.ref == ref {
			return e
		}
	}
	return nil
}

func (w *Workspace) findPermanent(key string) *viewEntry {
	for _, e := range w.views {
		if e.key == key && e.kind == ViewPermanent {
			return e
		}
	}
	return nil
}

func (w *Workspace) countKey(key string) int {
	n := 0
	for _, e := range w.views {
		if e.key == key {
			n++
		}
	}
	return n
}

func (w *Workspace) remove(target *viewEntry) {
	for i, e := range w.views {
		if e == target {
			w.views = append(w.views[:i], w.views[i+1:]...)
			return
		}
	}
}
