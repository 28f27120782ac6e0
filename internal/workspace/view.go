// Package workspace arbitrates document views: the single preview slot, the
// registry of open views, and the shared model cache behind them. One
// Workspace is one session context; nothing in here is package-global, so
// independent workspaces can coexist under test.
package workspace

import "fmt"

// ViewKind distinguishes transient preview views from permanent ones.
type ViewKind int

const (
	// ViewPermanent is a regular open document view.
	ViewPermanent ViewKind = iota
	// ViewPreview is the transient, replaceable view held by the slot.
	ViewPreview
)

func (k ViewKind) String() string {
	if k == ViewPreview {
		return "preview"
	}
	return "permanent"
}

// ViewRef is an opaque reference to a document view owned by the host's
// view provider.
type ViewRef interface {
	// Key returns the document key the view displays.
	Key() string
}

// ViewProvider is the host capability that materializes views. The
// workspace decides policy (which views exist, preview vs permanent); the
// provider does the mechanics.
type ViewProvider interface {
	CreateView(kind ViewKind, key string) ViewRef
	CloseView(ref ViewRef)
	MarkPermanent(ref ViewRef)
	ActivateView(ref ViewRef)
}

// StaleReferenceError reports an operation against a view or node that has
// since been closed. Callers treat it as a no-op outcome, never fatal.
type StaleReferenceError struct {
	Key string
}

func (e *StaleReferenceError) Error() string {
	return fmt.Sprintf("stale reference: %s", e.Key)
}
