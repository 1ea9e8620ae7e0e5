package components

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps glamour with a fixed style and a mutable wrap width.
type MarkdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer builds a renderer for the given glamour style ("dark",
// "light", "notty"). A width of 0 disables word wrap.
func NewMarkdownRenderer(style string, width int) MarkdownRenderer {
	r := MarkdownRenderer{style: style}
	r.SetWidth(width)
	return r
}

// SetWidth rebuilds the underlying renderer when the wrap width changes.
func (r *MarkdownRenderer) SetWidth(width int) {
	if r.renderer != nil && width == r.width {
		return
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStylePath(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return
	}
	r.width = width
	r.renderer = tr
}

// Render returns the styled markdown, or the raw text if rendering fails.
func (r MarkdownRenderer) Render(md string) string {
	if r.renderer == nil {
		return md
	}
	out, err := r.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
