// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the hania TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Teal - Brand color, user messages, active states
var Teal = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#2DD4BF"}

// TealDeep - Darker teal for backgrounds
var TealDeep = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#134E4A"}

// Emerald - Success states, location-active indicator
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// EmeraldDeep - Darker emerald for backgrounds
var EmeraldDeep = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#064E3B"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, emergency alerts, the 1122 call-out
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// RoseDeep - Darker rose for backgrounds
var RoseDeep = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#881337"}

// Amber - Warnings, degraded states
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#18181B"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F4F4F5", Dark: "#111113"}

// SurfaceBright - Slightly lighter/darker surface for highlights
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#FAFAFA", Dark: "#27272A"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E4E4E7", Dark: "#27272A"}

// OverlayDim - Dimmer overlay for less prominent elements
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D4D4D8", Dark: "#3F3F46"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E4E4E7"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A1A1AA"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#71717A"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#18181B"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Teal tones
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#CCFBF1", Dark: "#0F766E"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#115E59", Dark: "#F0FDFA"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#14B8A6", Dark: "#14B8A6"}

// Assistant message bubble - Neutral zinc tones
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F4F4F5", Dark: "#27272A"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#27272A", Dark: "#E4E4E7"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#D4D4D8", Dark: "#52525B"}

// =============================================================================
// CITATION COLORS
// =============================================================================

// Place cards carry a teal edge, web chips stay muted.
var PlaceCardBg = lipgloss.AdaptiveColor{Light: "#F0FDFA", Dark: "#1C2826"}
var PlaceCardFg = lipgloss.AdaptiveColor{Light: "#115E59", Dark: "#99F6E4"}
var PlaceCardBorder = lipgloss.AdaptiveColor{Light: "#5EEAD4", Dark: "#0F766E"}

var SourceChipBg = lipgloss.AdaptiveColor{Light: "#F4F4F5", Dark: "#27272A"}
var SourceChipFg = lipgloss.AdaptiveColor{Light: "#52525B", Dark: "#A1A1AA"}

// LinkColor - Accessible link color with sufficient contrast
var LinkColor = lipgloss.AdaptiveColor{Light: "#0D9488", Dark: "#5EEAD4"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text/shape indicators for status states.
// These symbols provide visual cues beyond color for colorblind accessibility.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Active  string
}

// StatusIndicators provides accessible shape/text indicators alongside colors.
// ASCII-only for maximum terminal compatibility.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Active:  "[*]",
}

// RenderError renders an error message with an X mark indicator.
func RenderError(message string) string {
	style := lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	return style.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with a warning indicator.
func RenderWarning(message string) string {
	style := lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	return style.Render(StatusIndicators.Warning + " " + message)
}

// RenderLink renders text as a link with underline.
// Underline provides a visual cue beyond color.
func RenderLink(text string) string {
	style := lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
	return style.Render(text)
}
