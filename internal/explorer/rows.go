package explorer

import (
	"github.com/jdbrinton/treeline/internal/tree"
	"github.com/jdbrinton/treeline/internal/vfs"
)

// Row is one visible line of the tree pane, produced by flattening the
// visual tree in preorder. Collapsed subtrees contribute no rows even when
// their visuals are still attached.
type Row struct {
	Key      string
	Name     string
	Kind     vfs.Kind
	Depth    int
	Expanded bool
}

// IsDir reports whether the row represents a directory.
func (r Row) IsDir() bool { return r.Kind == vfs.KindDir }

// flattenVisual lists the rows under root. The root itself is not a row;
// its children start at depth zero.
func flattenVisual(root *tree.Visual) []Row {
	if root == nil {
		return nil
	}
	var rows []Row
	var walk func(v *tree.Visual, depth int)
	walk = func(v *tree.Visual, depth int) {
		rows = append(rows, Row{
			Key:      v.Key,
			Name:     v.Name,
			Kind:     v.Kind,
			Depth:    depth,
			Expanded: v.Expanded,
		})
		if v.IsDir() && v.Expanded {
			for _, c := range v.Children {
				walk(c, depth+1)
			}
		}
	}
	for _, c := range root.Children {
		walk(c, 0)
	}
	return rows
}

// rowIndex returns the index of the row with the given key, or -1.
func rowIndex(rows []Row, key string) int {
	for i, r := range rows {
		if r.Key == key {
			return i
		}
	}
	return -1
}
