// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation screen of the hania TUI.
//
// This file defines keyboard bindings for the chat interface along with the
// help text shown in the overlay.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Clear    key.Binding
	Copy     key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("Up", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("Down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("Home", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("End", "go to bottom"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("Esc/C-c", "cancel request"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("C-h", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("C-q", "quit"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "new conversation"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy last reply"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Submit, k.Cancel, k.Clear, k.Copy},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// HELP TEXT
// =============================================================================

// HelpItem is one row of the help overlay.
type HelpItem struct {
	Key  string
	Desc string
}

// GetHelpItems returns the rows of the help overlay, in display order.
func GetHelpItems() []HelpItem {
	return []HelpItem{
		{"Enter", "Send message"},
		{"/", "Quick service command (try /help)"},
		{"Esc or C-c", "Cancel the request in flight"},
		{"C-y", "Copy last reply to clipboard"},
		{"C-l", "Start a new conversation"},
		{"Up/Down", "Scroll the conversation"},
		{"PgUp/PgDn", "Scroll a page at a time"},
		{"Home/End", "Jump to oldest/newest turn"},
		{"C-h", "Toggle this help"},
		{"C-q", "Quit"},
	}
}
