// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the hania TUI.
//
// All colors are defined as lipgloss.AdaptiveColor pairs so the interface
// reads well on both light and dark terminals without configuration. The
// palette follows the product's teal brand with rose reserved for the
// emergency call-out.
//
// # Key Types
//
//   - Theme: the full set of configured lipgloss styles, built once at
//     startup via NewTheme and shared by every view component.
//   - LayoutMode: responsive breakpoints derived from terminal width.
//
// # Usage
//
//	theme := styles.NewTheme()
//	theme.SetSize(width, height)
//	header := theme.HeaderTitle.Render("Hania")
//
// Styles are value types; components may derive local copies with Copy()
// without affecting the shared theme.
package styles
