// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
)

func TestMarkdownRendererRendersContent(t *testing.T) {
	r := NewMarkdownRenderer(80)
	out := r.Render("**Dengue** ki alamat: bukhar aur sar dard.")
	if !strings.Contains(out, "Dengue") {
		t.Errorf("rendered output lost content: %q", out)
	}
}

func TestMarkdownRendererClampsTinyWidth(t *testing.T) {
	r := NewMarkdownRenderer(3)
	out := r.Render("hello")
	if !strings.Contains(out, "hello") {
		t.Errorf("tiny width dropped content: %q", out)
	}
}

func TestMarkdownRendererSetWidthNoopOnSameWidth(t *testing.T) {
	r := NewMarkdownRenderer(80)
	before := r.renderer
	r.SetWidth(80)
	if r.renderer != before {
		t.Error("renderer rebuilt for unchanged width")
	}
}

func TestStripEmphasis(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**FORAN 1122 CALL KAREIN**", "FORAN 1122 CALL KAREIN"},
		{"plain text", "plain text"},
		{"*italic*", "italic"},
		{"* bullet item", "* bullet item"},
	}
	for _, tt := range tests {
		if got := stripEmphasis(tt.in); got != tt.want {
			t.Errorf("stripEmphasis(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseCodeBlocks(t *testing.T) {
	in := "before\n```\n1122 Rescue\n```\nafter"
	out := ParseCodeBlocks(in, 80)
	if !strings.Contains(out, "1122 Rescue") {
		t.Error("fenced content missing from render")
	}
	if strings.Contains(out, "```") {
		t.Error("fence markers leaked into render")
	}
}

func TestParseCodeBlocksUnclosedFence(t *testing.T) {
	out := ParseCodeBlocks("```\ndangling", 80)
	if !strings.Contains(out, "dangling") {
		t.Error("unclosed fence content was dropped")
	}
}
