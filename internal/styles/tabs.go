package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Tab rendering. A preview tab is italicized, the convention for views
// that will be replaced by the next preview rather than stacking up.
var (
	tabActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(TextPrimary).
			Bold(true)

	tabInactive = lipgloss.NewStyle().
			Background(BgTertiary).
			Foreground(TextSecondary)

	tabActivePreview = lipgloss.NewStyle().
				Background(Primary).
				Foreground(TextPrimary).
				Bold(true).
				Italic(true)

	tabInactivePreview = lipgloss.NewStyle().
				Background(BgTertiary).
				Foreground(TextSecondary).
				Italic(true)
)

// RenderTab renders one tab label.
func RenderTab(label string, active, preview, dirty bool) string {
	if dirty {
		label = "● " + label
	}
	padded := "  " + label + "  "

	switch {
	case active && preview:
		return tabActivePreview.Render(padded)
	case active:
		return tabActive.Render(padded)
	case preview:
		return tabInactivePreview.Render(padded)
	default:
		return tabInactive.Render(padded)
	}
}

// TruncateLabel shortens a label to fit maxWidth cells, appending an
// ellipsis. Safe for labels that already carry ANSI sequences.
func TruncateLabel(label string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(label) <= maxWidth {
		return label
	}
	if maxWidth == 1 {
		return "…"
	}
	// ansi.Truncate counts the tail inside the width.
	return ansi.Truncate(label, maxWidth, "…")
}

// PadLabel pads a plain label to exactly width cells, truncating when
// it is too long. Wide runes count as two cells.
func PadLabel(label string, width int) string {
	w := runewidth.StringWidth(label)
	if w > width {
		return TruncateLabel(label, width)
	}
	for ; w < width; w++ {
		label += " "
	}
	return label
}
