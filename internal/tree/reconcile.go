package tree

import "github.com/jdbrinton/treeline/internal/vfs"

// Visual is a node of the live visual tree the reconciler patches. Visual
// identity (the pointer) is what downstream rendering state hangs off, so
// reconciliation must keep identities of unchanged subtrees intact.
type Visual struct {
	Name     string
	Key      string
	Kind     vfs.Kind
	Expanded bool
	Children []*Visual
}

// IsDir reports whether the visual node represents a directory.
func (v *Visual) IsDir() bool { return v.Kind == vfs.KindDir }

// OpType classifies one patch operation.
type OpType int

const (
	OpAttach OpType = iota
	OpDetach
)

// Op records a single attach or detach applied during reconciliation.
type Op struct {
	Type OpType
	Key  string
}

// Reconciler transforms a visual tree from one snapshot to the next with a
// minimal patch. Expansion styling is read from the shared expansion set.
// Reconcile calls against the same root must not overlap; the caller
// serializes refresh cycles.
type Reconciler struct {
	exp *ExpansionSet
	ops []Op
}

// NewReconciler creates a reconciler over the given expansion set.
func NewReconciler(exp *ExpansionSet) *Reconciler {
	return &Reconciler{exp: exp}
}

// Ops returns the patch operations recorded since the last Reset.
func (r *Reconciler) Ops() []Op { return r.ops }

// Reset clears the recorded operation log.
func (r *Reconciler) Reset() { r.ops = nil }

// Build materializes a fresh visual subtree for a snapshot node, recording
// one attach for every node created. Unloaded directories materialize
// without children.
func (r *Reconciler) Build(n *Node) *Visual {
	v := r.build(n)
	return v
}

func (r *Reconciler) build(n *Node) *Visual {
	v := &Visual{
		Name: n.Name,
		Key:  n.Key,
		Kind: n.Kind,
	}
	r.ops = append(r.ops, Op{Type: OpAttach, Key: n.Key})
	if !n.IsDir() {
		return v
	}
	v.Expanded = r.exp.Has(n.Key)
	if n.Loaded {
		for i := 0; i < n.ChildCount(); i++ {
			v.Children = append(v.Children, r.build(n.ChildAt(i)))
		}
	}
	return v
}

// Reconcile patches vis from the old snapshot to the new one and returns the
// resulting visual node (a new one if the node had to be replaced).
//
// Rules, per subtree:
//   - differing kind or name at the same position is a full replace: the old
//     visual is detached and a fresh one is built
//   - names present only in the old snapshot are detached
//   - names present only in the new snapshot are attached, in new-snapshot
//     enumeration order
//   - common names recurse, keeping the existing visual identity
//
// Reconciling a snapshot against an identical one records zero operations
// and leaves every visual pointer untouched.
func (r *Reconciler) Reconcile(vis *Visual, old, new *Node) *Visual {
	if new == nil {
		if vis != nil {
			r.detach(vis)
		}
		return nil
	}
	if vis == nil || old == nil {
		if vis != nil {
			r.detach(vis)
		}
		return r.Build(new)
	}
	if old.Kind != new.Kind || old.Name != new.Name {
		r.detach(vis)
		return r.Build(new)
	}

	vis.Key = new.Key
	if !new.IsDir() {
		return vis
	}
	vis.Expanded = r.exp.Has(new.Key)

	// Index the existing visual children by name. Snapshot child sets are
	// consulted through their ordered mappings directly.
	visByName := make(map[string]*Visual, len(vis.Children))
	for _, c := range vis.Children {
		visByName[c.Name] = c
	}

	// Detach removals first, in new-snapshot order authority: anything the
	// new snapshot no longer names goes away.
	for _, name := range old.ChildNames() {
		if new.Child(name) == nil {
			if vc := visByName[name]; vc != nil {
				r.detach(vc)
			}
		}
	}

	// Walk the new snapshot's order, recursing into common names and
	// attaching additions.
	next := make([]*Visual, 0, new.ChildCount())
	identical := len(vis.Children) == new.ChildCount()
	for i := 0; i < new.ChildCount(); i++ {
		nc := new.ChildAt(i)
		oc := old.Child(nc.Name)
		vc := visByName[nc.Name]
		patched := r.Reconcile(vc, oc, nc)
		if identical && (i >= len(vis.Children) || vis.Children[i] != patched) {
			identical = false
		}
		next = append(next, patched)
	}
	// Keep the original slice when nothing moved so an identical snapshot
	// leaves the visual untouched.
	if !identical {
		vis.Children = next
	}
	return vis
}

// detach records the removal of a visual subtree.
func (r *Reconciler) detach(v *Visual) {
	r.ops = append(r.ops, Op{Type: OpDetach, Key: v.Key})
	for _, c := range v.Children {
		r.detach(c)
	}
}

// CountOps tallies the recorded operations by type.
func CountOps(ops []Op) (attach, detach int) {
	for _, op := range ops {
		switch op.Type {
		case OpAttach:
			attach++
		case OpDetach:
			detach++
		}
	}
	return
}
