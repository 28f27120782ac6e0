package explorer

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"

	"github.com/jdbrinton/treeline/internal/styles"
)

// rendered caches the formatted lines of one document so View does not
// re-highlight on every frame. Invalidated when the width or the content
// length changes, or explicitly when a model reloads.
type rendered struct {
	key   string
	width int
	size  int
	lines []string
}

func (r *rendered) valid(key string, width, size int) bool {
	return r != nil && r.key == key && r.width == width && r.size == size
}

// renderContent returns the display lines for the active tab's document at
// the given content width.
func (p *Plugin) renderContent(t *Tab, width int) []string {
	m := p.ctx.Workspace.Models().Get(t.key)
	if m == nil {
		return []string{styles.Muted.Render("no content loaded")}
	}
	content := m.Content()
	if p.render.valid(t.key, width, len(content)) {
		return p.render.lines
	}

	lines := formatDocument(t.key, content, width, p.maxPreview)
	p.render = &rendered{key: t.key, width: width, size: len(content), lines: lines}
	return lines
}

// invalidateRender drops the cached rendering, forcing the next View to
// re-format the active document.
func (p *Plugin) invalidateRender() { p.render = nil }

func formatDocument(key string, content []byte, width, maxBytes int) []string {
	if isBinary(content) {
		return []string{styles.Muted.Render(fmt.Sprintf("binary file (%d bytes)", len(content)))}
	}
	truncated := false
	if maxBytes > 0 && len(content) > maxBytes {
		content = content[:maxBytes]
		truncated = true
	}

	var out []string
	switch strings.ToLower(path.Ext(key)) {
	case ".md", ".markdown":
		out = renderMarkdown(content, width)
	default:
		out = renderSource(key, content)
	}
	if truncated {
		out = append(out, "", styles.Muted.Render("... truncated"))
	}
	return out
}

// isBinary uses the same heuristic as git: a NUL byte in the first 8000
// bytes marks the file binary.
func isBinary(content []byte) bool {
	probe := content
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// renderSource highlights content and prefixes line numbers.
func renderSource(key string, content []byte) []string {
	text := string(content)
	highlighted, err := highlightSource(path.Base(key), text)
	if err != nil {
		highlighted = text
	}
	raw := strings.Split(strings.TrimRight(highlighted, "\n"), "\n")
	out := make([]string, len(raw))
	for i, line := range raw {
		out[i] = styles.LineNumber.Render(fmt.Sprintf("%d ", i+1)) + " " + line
	}
	return out
}

func renderMarkdown(content []byte, width int) []string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.MarkdownTheme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return strings.Split(string(content), "\n")
	}
	text, err := r.Render(string(content))
	if err != nil {
		return strings.Split(string(content), "\n")
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func highlightSource(filename, src string) (string, error) {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Analyse(src)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromastyles.Get(styles.SyntaxTheme)
	if style == nil {
		style = chromastyles.Fallback
	}
	formatter := formatters.Get("terminal256")

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, it); err != nil {
		return "", err
	}
	return buf.String(), nil
}
