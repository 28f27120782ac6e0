package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderTab_DirtyMarker(t *testing.T) {
	plain := ansi.Strip(RenderTab("main.go", false, false, true))
	if !strings.Contains(plain, "● main.go") {
		t.Errorf("dirty tab should carry marker, got %q", plain)
	}

	clean := ansi.Strip(RenderTab("main.go", false, false, false))
	if strings.Contains(clean, "●") {
		t.Errorf("clean tab should not carry marker, got %q", clean)
	}
}

func TestPreviewTabStylesAreItalic(t *testing.T) {
	if !tabActivePreview.GetItalic() || !tabInactivePreview.GetItalic() {
		t.Error("preview tab styles should be italic")
	}
	if tabActive.GetItalic() || tabInactive.GetItalic() {
		t.Error("permanent tab styles should not be italic")
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		width int
		want  string
	}{
		{"fits", "main.go", 10, "main.go"},
		{"exact", "main.go", 7, "main.go"},
		{"truncated", "very_long_name.go", 8, "very_lo…"},
		{"width one", "main.go", 1, "…"},
		{"width zero", "main.go", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateLabel(tt.label, tt.width)
			if got != tt.want {
				t.Errorf("TruncateLabel(%q, %d) = %q, want %q", tt.label, tt.width, got, tt.want)
			}
			if ansi.StringWidth(got) > tt.width {
				t.Errorf("result %q exceeds width %d", got, tt.width)
			}
		})
	}
}

func TestPadLabel(t *testing.T) {
	if got := PadLabel("ab", 5); got != "ab   " {
		t.Errorf("PadLabel = %q, want %q", got, "ab   ")
	}
	if got := ansi.StringWidth(PadLabel("too long label", 6)); got > 6 {
		t.Errorf("padded width = %d, want <= 6", got)
	}
}
