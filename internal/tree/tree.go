package tree

import (
	"context"

	"github.com/jdbrinton/treeline/internal/vfs"
)

// Tree lazily mirrors a subtree of the external store. The root's children
// are fetched eagerly on Open; every other directory is enumerated on first
// expand. All mutation happens on the event loop; I/O methods take a context
// and block their caller.
type Tree struct {
	handle vfs.Handle
	exp    *ExpansionSet

	// Root is the current snapshot. Replaced wholesale by ApplyRefresh.
	Root *Node

	// in-flight expand guard, keyed by directory key
	loading map[string]struct{}
}

// Open creates a tree over the handle, eagerly loads the root's children
// (the only eager fetch), and adds the root to the expansion set. A failed
// root enumeration leaves no partial state behind.
func Open(ctx context.Context, handle vfs.Handle, exp *ExpansionSet) (*Tree, error) {
	t := &Tree{
		handle:  handle,
		exp:     exp,
		loading: make(map[string]struct{}),
	}
	root := NewDir("", "")
	if err := t.load(ctx, root); err != nil {
		return nil, err
	}
	t.Root = root
	exp.Add(root.Key)
	return t, nil
}

// Expansion returns the expansion set the tree consults during refresh.
func (t *Tree) Expansion() *ExpansionSet { return t.exp }

// Expand enumerates a directory's children on first expansion and marks the
// key expanded. Already-loaded directories just re-enter the expansion set
// (cheap re-expand). On enumeration failure Loaded stays false so the next
// expand retries. An expand racing an in-flight one is a no-op.
func (t *Tree) Expand(ctx context.Context, n *Node) error {
	if n == nil || !n.IsDir() {
		return nil
	}
	if !n.Loaded {
		if _, busy := t.loading[n.Key]; busy {
			return nil
		}
		t.loading[n.Key] = struct{}{}
		err := t.load(ctx, n)
		delete(t.loading, n.Key)
		if err != nil {
			return err
		}
	}
	t.exp.Add(n.Key)
	return nil
}

// Collapse removes the key from the expansion set. Loaded children are kept
// so re-expanding costs nothing.
func (t *Tree) Collapse(n *Node) {
	if n == nil || !n.IsDir() {
		return
	}
	t.exp.Remove(n.Key)
}

// load performs one enumeration and installs the resulting child list.
func (t *Tree) load(ctx context.Context, n *Node) error {
	entries, err := t.handle.Enumerate(ctx, n.Key)
	if err != nil {
		return err
	}
	cl := newChildList()
	for _, ent := range entries {
		if ent.Kind == vfs.KindDir {
			cl.add(NewDir(ent.Name, ent.Key))
		} else {
			cl.add(NewFile(ent.Name, ent.Key))
		}
	}
	n.setChildren(cl)
	return nil
}

// Refresh is one snapshot walk prepared by BeginRefresh. It owns private
// copies of the tree and expansion set, so Run may execute on a background
// goroutine while the event loop keeps mutating the live tree.
type Refresh struct {
	handle vfs.Handle
	exp    *ExpansionSet
	old    *Node
}

// BeginRefresh captures copies of the current snapshot and expansion set.
// Call it on the event loop; the returned walk runs anywhere.
func (t *Tree) BeginRefresh() *Refresh {
	return &Refresh{handle: t.handle, exp: t.exp.Clone(), old: t.Root.clone()}
}

// RefreshSnapshot re-walks the store synchronously on the caller's
// goroutine. Equivalent to BeginRefresh followed by Run.
func (t *Tree) RefreshSnapshot(ctx context.Context) (*Node, error) {
	return t.BeginRefresh().Run(ctx)
}

// Run re-walks the store and produces a brand-new snapshot to be diffed
// against Root. Only directories whose key was expanded at BeginRefresh time
// are re-enumerated; collapsed subtrees carry their previous children over
// unchanged. A subtree whose enumeration fails mid-walk is likewise retained
// as-is rather than torn down (it will be retried on the next refresh).
// Callers apply the result with ApplyRefresh after reconciling.
func (r *Refresh) Run(ctx context.Context) (*Node, error) {
	fresh := NewDir(r.old.Name, r.old.Key)
	if err := r.rewalk(ctx, r.old, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// rewalk fills fresh with a re-enumeration of old's subtree. The root's own
// enumeration failing is reported; deeper failures retain the old subtree.
func (r *Refresh) rewalk(ctx context.Context, old, fresh *Node) error {
	entries, err := r.handle.Enumerate(ctx, fresh.Key)
	if err != nil {
		return err
	}
	cl := newChildList()
	for _, ent := range entries {
		var child *Node
		if ent.Kind == vfs.KindDir {
			child = NewDir(ent.Name, ent.Key)
			prev := old.Child(ent.Name)
			if prev != nil && !prev.IsDir() {
				prev = nil // kind changed: treat as brand new
			}
			r.refreshDir(ctx, prev, child)
		} else {
			child = NewFile(ent.Name, ent.Key)
		}
		cl.add(child)
	}
	fresh.setChildren(cl)
	return nil
}

// refreshDir decides how a child directory is materialized during refresh.
func (r *Refresh) refreshDir(ctx context.Context, prev, fresh *Node) {
	if !r.exp.Has(fresh.Key) {
		// Collapsed: keep whatever was loaded before, do not re-fetch.
		if prev != nil {
			fresh.adoptFrom(prev)
		}
		return
	}
	if prev == nil {
		prev = NewDir(fresh.Name, fresh.Key)
	}
	if err := r.rewalk(ctx, prev, fresh); err != nil {
		// Partial failure: treat the subtree as unchanged until the next
		// successful refresh.
		fresh.adoptFrom(prev)
	}
}

// ApplyRefresh installs a snapshot produced by RefreshSnapshot as the new
// current tree.
func (t *Tree) ApplyRefresh(fresh *Node) {
	if fresh != nil {
		t.Root = fresh
	}
}

// Find walks the current snapshot for the node with the given key, or nil.
func (t *Tree) Find(key string) *Node {
	return findKey(t.Root, key)
}

func findKey(n *Node, key string) *Node {
	if n == nil {
		return nil
	}
	if n.Key == key {
		return n
	}
	if !n.IsDir() || !n.Loaded {
		return nil
	}
	for i := 0; i < n.ChildCount(); i++ {
		child := n.ChildAt(i)
		if child.Key == key {
			return child
		}
		// Keys are slash-joined paths, so only descend into prefixes.
		if child.IsDir() && (child.Key == "" || hasKeyPrefix(key, child.Key)) {
			if found := findKey(child, key); found != nil {
				return found
			}
		}
	}
	return nil
}

func hasKeyPrefix(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	return len(key) > len(prefix) && key[:len(prefix)] == prefix && key[len(prefix)] == '/'
}
