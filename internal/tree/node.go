// Package tree maintains an in-memory mirror of a subtree of an external
// file store, populated lazily per directory, and reconciles successive
// snapshots of it onto a live visual tree with minimal patches.
package tree

import "github.com/jdbrinton/treeline/internal/vfs"

// Node is one entry in a tree snapshot. Files are leaves; directories carry
// an ordered child list that is only valid once Loaded is true. A node's
// kind never changes: if the store reports a different kind under the same
// name, reconciliation treats it as a remove plus an add.
type Node struct {
	Name string
	Key  string
	Kind vfs.Kind

	// Directory state. Children must not be read while Loaded is false.
	Loaded   bool
	children *childList
}

// NewFile creates a leaf node.
func NewFile(name, key string) *Node {
	return &Node{Name: name, Key: key, Kind: vfs.KindFile}
}

// NewDir creates an unloaded directory node with no children.
func NewDir(name, key string) *Node {
	return &Node{Name: name, Key: key, Kind: vfs.KindDir, children: newChildList()}
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool { return n.Kind == vfs.KindDir }

// ChildCount returns the number of children of a loaded directory.
func (n *Node) ChildCount() int {
	if n.children == nil {
		return 0
	}
	return n.children.len()
}

// ChildAt returns the i-th child in enumeration order.
func (n *Node) ChildAt(i int) *Node { return n.children.at(i) }

// Child returns the child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n.children == nil {
		return nil
	}
	return n.children.get(name)
}

// ChildNames returns child names in enumeration order.
func (n *Node) ChildNames() []string {
	if n.children == nil {
		return nil
	}
	return n.children.names()
}

// setChildren installs a freshly enumerated child list and marks the
// directory loaded.
func (n *Node) setChildren(cl *childList) {
	n.children = cl
	n.Loaded = true
}

// adoptFrom carries another node's loaded children over unchanged. Used when
// a refresh does not re-enumerate a subtree (collapsed, or enumeration
// failed) so the previous children are retained.
func (n *Node) adoptFrom(old *Node) {
	n.children = old.children
	n.Loaded = old.Loaded
}

// clone deep-copies the subtree. The copy shares no state with the
// original, so one side can be mutated while the other is read.
func (n *Node) clone() *Node {
	c := &Node{Name: n.Name, Key: n.Key, Kind: n.Kind, Loaded: n.Loaded}
	if n.children != nil {
		cl := newChildList()
		for _, name := range n.children.order {
			cl.add(n.children.byName[name].clone())
		}
		c.children = cl
	}
	return c
}

// childList is an ordered name-to-node mapping. Order is the enumeration
// order reported by the store; it is preserved exactly, never sorted.
type childList struct {
	order  []string
	byName map[string]*Node
}

func newChildList() *childList {
	return &childList{byName: make(map[string]*Node)}
}

func (cl *childList) add(n *Node) {
	if _, dup := cl.byName[n.Name]; dup {
		return
	}
	cl.order = append(cl.order, n.Name)
	cl.byName[n.Name] = n
}

func (cl *childList) len() int { return len(cl.order) }

func (cl *childList) at(i int) *Node {
	if i < 0 || i >= len(cl.order) {
		return nil
	}
	return cl.byName[cl.order[i]]
}

func (cl *childList) get(name string) *Node { return cl.byName[name] }

func (cl *childList) names() []string {
	out := make([]string, len(cl.order))
	copy(out, cl.order)
	return out
}
