// Copyright (c) 2025 Hania Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation screen of the hania TUI.
//
// The package follows the Bubble Tea Model/Update/View architecture. Model
// owns all conversation state: the turn log, the submission state machine,
// the viewport, and the input field. Remote work (the generate call, the
// one-shot location lookup) runs inside tea.Cmd closures and reports back
// through the typed messages in messages.go.
//
// # State machine
//
// The screen is Idle or Submitting. A submission snapshots the history,
// appends the user turn and a pending placeholder, and fires the request.
// Exactly one placeholder exists while Submitting; the reply or error
// removes it and appends the resolved turn. Submissions are rejected while
// one is in flight.
//
// # Wiring
//
//	client := gemini.NewClient(key)
//	provider := geo.NewProvider(nil)
//	m := chat.New(client, provider, cfg, logger)
//	p := tea.NewProgram(m, tea.WithAltScreen())
package chat
