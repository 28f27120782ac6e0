package explorer

import (
	"testing"

	"github.com/jdbrinton/treeline/internal/tree"
	"github.com/jdbrinton/treeline/internal/vfs"
)

func dirVisual(name, key string, expanded bool, children ...*tree.Visual) *tree.Visual {
	return &tree.Visual{Name: name, Key: key, Kind: vfs.KindDir, Expanded: expanded, Children: children}
}

func fileVisual(name, key string) *tree.Visual {
	return &tree.Visual{Name: name, Key: key, Kind: vfs.KindFile}
}

func TestFlattenVisual_SkipsCollapsedSubtrees(t *testing.T) {
	root := dirVisual("", "", true,
		fileVisual("README.md", "README.md"),
		dirVisual("src", "src", false,
			fileVisual("index.ts", "src/index.ts"),
		),
		dirVisual("docs", "docs", true,
			fileVisual("guide.md", "docs/guide.md"),
		),
	)

	rows := flattenVisual(root)
	want := []string{"README.md", "src", "docs", "docs/guide.md"}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, key := range want {
		if rows[i].Key != key {
			t.Errorf("row %d = %q, want %q", i, rows[i].Key, key)
		}
	}
	if rows[3].Depth != 1 {
		t.Errorf("docs/guide.md depth = %d, want 1", rows[3].Depth)
	}
}

func TestFlattenVisual_NilRoot(t *testing.T) {
	if rows := flattenVisual(nil); rows != nil {
		t.Errorf("expected no rows, got %v", rows)
	}
}

func TestRowIndex(t *testing.T) {
	rows := []Row{{Key: "a"}, {Key: "b/c"}}
	if i := rowIndex(rows, "b/c"); i != 1 {
		t.Errorf("rowIndex = %d, want 1", i)
	}
	if i := rowIndex(rows, "missing"); i != -1 {
		t.Errorf("rowIndex for missing key = %d, want -1", i)
	}
}
