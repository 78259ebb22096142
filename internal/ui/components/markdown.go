// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the hania TUI.
package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders assistant reply markdown for terminal display.
// Glamour renderers are width-bound, so one renderer is cached per wrap
// width and rebuilt on resize.
type MarkdownRenderer struct {
	mu       sync.Mutex
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer wrapping at the given width.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	r := &MarkdownRenderer{}
	r.SetWidth(width)
	return r
}

// SetWidth rebuilds the underlying renderer when the wrap width changes.
func (r *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if width == r.width && r.renderer != nil {
		return
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		// Keep the previous renderer; Render falls back to the plain path
		// when none was ever built.
		return
	}

	r.width = width
	r.renderer = renderer
}

// Render renders markdown content for terminal display. Returns a plainly
// formatted version of the content if glamour is unavailable or fails, so a
// reply is never dropped over a presentation error.
func (r *MarkdownRenderer) Render(content string) string {
	r.mu.Lock()
	renderer := r.renderer
	width := r.width
	r.mu.Unlock()

	if renderer == nil {
		return renderPlainMarkdown(content, width)
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return renderPlainMarkdown(content, width)
	}

	// Glamour pads with leading/trailing blank lines that fight the bubble
	// layout.
	return strings.Trim(rendered, "\n")
}

// =============================================================================
// PLAIN FALLBACK
// =============================================================================

// renderPlainMarkdown strips the markdown the assistant commonly emits and
// highlights fenced code via chroma. Used when the glamour renderer could
// not be constructed.
func renderPlainMarkdown(content string, maxWidth int) string {
	if maxWidth < 20 {
		maxWidth = 80
	}
	stripped := stripEmphasis(content)
	return ParseCodeBlocks(stripped, maxWidth)
}

// stripEmphasis removes **bold** and *italic* markers, keeping the text.
func stripEmphasis(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		// Leave list bullets alone; only unwrap emphasis markers.
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "* ") {
			b.WriteString(line)
		} else {
			b.WriteString(strings.ReplaceAll(line, "*", ""))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
